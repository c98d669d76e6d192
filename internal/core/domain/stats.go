package domain

// DashboardStats - сводка для главной страницы админки
type DashboardStats struct {
	TotalProperties    int
	PropertiesByStatus map[PropertyStatus]int
	NewListings        int // за последние 30 дней
	TotalViews         int64
	Inquiries          int // реплики посетителей в чате
	ChatSessions       int
}
