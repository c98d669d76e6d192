package postgres_adapter

import (
	"fmt"
	"showcase-service/internal/core/domain"
	"strings"
)

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argID      int
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{argID: 1, args: make([]interface{}, 0)}
}

// addCondition подставляет номер следующего аргумента вместо каждого $%[1]d
func (qb *queryBuilder) addCondition(condition string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, qb.argID))
	qb.args = append(qb.args, arg)
	qb.argID++
}

func (qb *queryBuilder) addRaw(condition string) {
	qb.conditions = append(qb.conditions, condition)
}

func (qb *queryBuilder) AddFloatFilter(column string, min, max *float64) {
	if min != nil {
		qb.addCondition(column+" >= $%d", *min)
	}
	if max != nil {
		qb.addCondition(column+" <= $%d", *max)
	}
}

func (qb *queryBuilder) build() (string, []interface{}) {
	if len(qb.conditions) == 0 {
		return "", qb.args
	}
	return "WHERE " + strings.Join(qb.conditions, " AND "), qb.args
}

// applyPropertyFilter строит WHERE для каталога. Без явного статуса черновики скрыты.
func applyPropertyFilter(filter domain.PropertyFilter) (string, []interface{}) {
	qb := newQueryBuilder()

	if filter.Status != "" {
		qb.addCondition("status = $%d", string(filter.Status))
	} else {
		qb.addRaw("status <> 'draft'")
	}
	if filter.Type != "" {
		qb.addCondition("type = $%d", filter.Type)
	}
	if filter.Region != "" {
		qb.addCondition("region = $%d", filter.Region)
	}
	qb.AddFloatFilter("price_value", filter.PriceMin, filter.PriceMax)

	if filter.Search != "" {
		qb.addCondition(`(title->>'es' ILIKE $%[1]d OR title->>'en' ILIKE $%[1]d OR title->>'ru' ILIKE $%[1]d
			OR location->>'address' ILIKE $%[1]d OR city ILIKE $%[1]d)`, "%"+escapeLike(filter.Search)+"%")
	}

	return qb.build()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
