package assistant

import (
	"context"
	"fmt"
	"showcase-service/internal/core/domain"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type cannedAnswer struct {
	question string
	answer   string
}

// порядок важен: срабатывает первое совпадение
var cannedAnswers = []cannedAnswer{
	{
		question: "какую недвижимость я могу купить с бюджетом 300 000€?",
		answer:   "За 300 000€ вы можете приобрести 1-2 комнатную квартиру в популярных прибрежных городах вроде Торревьеха или Аликанте. Также доступны небольшие апартаменты в пригородах Барселоны и Валенсии. Если рассматривать менее туристические районы, то бюджет позволит купить таунхаус или небольшую виллу.",
	},
	{
		question: "какие документы нужны для покупки?",
		answer:   "Для покупки недвижимости в Испании вам потребуется: NIE (идентификационный номер иностранца), открытый банковский счет в испанском банке, нотариально заверенная доверенность (если вы не можете присутствовать лично). На момент сделки все налоги должны быть оплачены предыдущим владельцем.",
	},
	{
		question: "как получить внж при покупке недвижимости?",
		answer:   "При покупке недвижимости стоимостью от 500 000€ вы можете претендовать на \"Золотую визу\" (инвесторскую визу), которая дает ВНЖ на 2 года с возможностью продления. Эта виза распространяется на всю семью, включая детей до 18 лет. Процесс получения занимает около 2-3 месяцев после покупки.",
	},
	{
		question: "сколько стоит содержание недвижимости?",
		answer:   "Ежегодные расходы на содержание недвижимости в Испании включают: налог на недвижимость (IBI) - около 0,5-1% от кадастровой стоимости, коммунальные платежи - в среднем 100-200€ в месяц, налог на вывоз мусора - около 100-150€ в год. Для апартаментов также плата за обслуживание общих территорий - от 50 до 200€ в месяц.",
	},
}

// CannedAssistant отвечает заготовками на частые вопросы.
// Работает без внешних сервисов, поэтому используется и как запасной.
type CannedAssistant struct{}

func NewCannedAssistant() *CannedAssistant {
	return &CannedAssistant{}
}

func (a *CannedAssistant) Reply(ctx context.Context, history []domain.ChatMessage, question string) (string, error) {
	return CannedReply(question), nil
}

// CannedReply ищет заготовку, где вопрос содержит ключ или ключ содержит вопрос
func CannedReply(question string) string {
	simplified := strings.TrimSpace(cases.Lower(language.Russian).String(question))
	if simplified != "" {
		for _, c := range cannedAnswers {
			if strings.Contains(simplified, c.question) || strings.Contains(c.question, simplified) {
				return c.answer
			}
		}
	}
	return fmt.Sprintf("Спасибо за ваш вопрос о \"%s\". Я обрабатываю ваш запрос. Чтобы получить более точную информацию, вы можете связаться с нашими специалистами по телефону или оставить заявку на сайте.", question)
}
