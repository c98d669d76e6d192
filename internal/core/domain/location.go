package domain

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

type knownTown struct {
	city     string
	region   string
	needles  []string
	patterns []*regexp.Regexp
}

// Города побережья, которые распознаются в адресе.
// Порядок важен: первый совпавший выигрывает.
var knownTowns = []knownTown{
	{
		city:    "torrevieja",
		region:  "costa-blanca",
		needles: []string{"torrevieja", "торревьеха", "торрев"},
		// кириллица вперемешку с похожими латинскими буквами
		patterns: []*regexp.Regexp{regexp.MustCompile(`т[о0o]рр[еe]в[ьb]?[еe]х[аa]`)},
	},
	{
		city:    "orihuela",
		region:  "costa-blanca",
		needles: []string{"orihuela", "ориуэла", "ориуела"},
	},
	{
		city:    "alicante",
		region:  "costa-blanca",
		needles: []string{"alicante", "alacant", "аликанте"},
	},
	{
		city:    "benidorm",
		region:  "costa-blanca",
		needles: []string{"benidorm", "бенидорм"},
	},
	{
		city:    "marbella",
		region:  "costa-del-sol",
		needles: []string{"marbella", "марбелья", "марбела"},
	},
	{
		city:    "malaga",
		region:  "costa-del-sol",
		needles: []string{"málaga", "malaga", "малага"},
	},
}

// InferCityRegion определяет город и регион по свободной строке адреса
func InferCityRegion(address string) (city, region string, ok bool) {
	// Caser хранит состояние, поэтому создается на каждый вызов
	folded := cases.Fold().String(address)
	// "toppeв" набирают латиницей в русской раскладке
	mixed := strings.NewReplacer(
		"t", "т", "p", "р", "e", "е", "o", "о", "a", "а", "x", "х", "c", "с",
	).Replace(folded)

	for _, town := range knownTowns {
		for _, needle := range town.needles {
			if strings.Contains(folded, needle) || strings.Contains(mixed, needle) {
				return town.city, town.region, true
			}
		}
		for _, re := range town.patterns {
			if re.MatchString(folded) || re.MatchString(mixed) {
				return town.city, town.region, true
			}
		}
	}
	return "", "", false
}
