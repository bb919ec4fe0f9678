package view

import (
	"cmp"
	"strconv"
	"strings"
	"time"

	"artclub/internal/domain/models"
)

const (
	SortNewest = "newest"
	SortOldest = "oldest"
	SortTitle  = "title"
	SortLikes  = "likes"
	SortDate   = "date"
	SortName   = "name"
)

// ListParams параметры списка, пришедшие из запроса
type ListParams struct {
	Search  string `query:"search"`
	Sort    string `query:"sort"`
	Page    int    `query:"page"`
	PerPage int    `query:"per_page"`
}

// MaxPerPage верхняя граница per_page из запроса
const MaxPerPage = 100

// Limit размер страницы, прижатый к MaxPerPage
func (p ListParams) Limit() int {
	return min(p.PerPage, MaxPerPage)
}

type ArtworkParams struct {
	ListParams
	Category models.Category       `query:"category"`
	Status   models.ApprovalStatus `query:"status"`
	ArtistID int64                 `query:"artist"`
}

func ArtworkQuery(p ArtworkParams) Query[models.Artwork] {
	q := Query[models.Artwork]{
		Search:  p.Search,
		Fields:  func(a models.Artwork) []string { return []string{a.Title} },
		Page:    p.Page,
		PerPage: p.Limit(),
	}

	if p.Category != "" {
		q.Filters = append(q.Filters, func(a models.Artwork) bool { return a.Category == p.Category })
	}
	if p.Status != "" {
		q.Filters = append(q.Filters, func(a models.Artwork) bool { return a.ApprovalStatus == p.Status })
	}
	if p.ArtistID != 0 {
		q.Filters = append(q.Filters, func(a models.Artwork) bool { return a.Artist.ID == p.ArtistID })
	}

	switch p.Sort {
	case SortNewest:
		q.Compare = func(a, b models.Artwork) int { return b.SubmissionDate.Compare(a.SubmissionDate) }
	case SortOldest:
		q.Compare = func(a, b models.Artwork) int { return a.SubmissionDate.Compare(b.SubmissionDate) }
	case SortTitle:
		q.Compare = func(a, b models.Artwork) int { return compareFold(a.Title, b.Title) }
	case SortLikes:
		q.Compare = func(a, b models.Artwork) int { return cmp.Compare(b.LikesCount, a.LikesCount) }
	}

	return q
}

type EventParams struct {
	ListParams
	// Scope upcoming или completed
	Scope string `query:"scope"`
}

const (
	ScopeUpcoming  = "upcoming"
	ScopeCompleted = "completed"
)

func EventQuery(p EventParams, now time.Time) Query[models.Event] {
	q := Query[models.Event]{
		Search: p.Search,
		Fields: func(e models.Event) []string {
			return []string{e.Title, e.Location}
		},
		Page:    p.Page,
		PerPage: p.Limit(),
	}

	switch p.Scope {
	case ScopeUpcoming:
		q.Filters = append(q.Filters, func(e models.Event) bool { return IsUpcoming(e, now) })
	case ScopeCompleted:
		q.Filters = append(q.Filters, func(e models.Event) bool { return !IsUpcoming(e, now) })
	}

	switch p.Sort {
	case SortDate, SortOldest:
		q.Compare = func(a, b models.Event) int { return a.Date.Compare(b.Date.Time) }
	case SortNewest:
		q.Compare = func(a, b models.Event) int { return b.Date.Compare(a.Date.Time) }
	case SortTitle:
		q.Compare = func(a, b models.Event) int { return compareFold(a.Title, b.Title) }
	}

	return q
}

// IsUpcoming мероприятие не завершено и его дата сегодня или позже
func IsUpcoming(e models.Event, now time.Time) bool {
	if e.IsCompleted {
		return false
	}
	if e.Date.IsZero() {
		return true
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, e.Date.Location())
	return !e.Date.Before(today)
}

type ProjectParams struct {
	ListParams
	// Completed "true", "false" или пусто
	Completed string `query:"completed"`
	MemberID  int64  `query:"member"`
}

func ProjectQuery(p ProjectParams) Query[models.Project] {
	q := Query[models.Project]{
		Search:  p.Search,
		Fields:  func(pr models.Project) []string { return []string{pr.Title, pr.Description} },
		Page:    p.Page,
		PerPage: p.Limit(),
	}

	if want, err := strconv.ParseBool(p.Completed); err == nil {
		q.Filters = append(q.Filters, func(pr models.Project) bool { return pr.IsCompleted == want })
	}
	if p.MemberID != 0 {
		q.Filters = append(q.Filters, func(pr models.Project) bool {
			if pr.Creator == p.MemberID {
				return true
			}
			for _, id := range pr.Members {
				if id == p.MemberID {
					return true
				}
			}
			return false
		})
	}

	switch p.Sort {
	case SortTitle:
		q.Compare = func(a, b models.Project) int { return compareFold(a.Title, b.Title) }
	case SortDate, SortOldest:
		q.Compare = func(a, b models.Project) int { return a.StartDate.Compare(b.StartDate.Time) }
	case SortNewest:
		q.Compare = func(a, b models.Project) int { return b.StartDate.Compare(a.StartDate.Time) }
	}

	return q
}

type UserParams struct {
	ListParams
	Role   models.Role `query:"role"`
	Active string      `query:"active"`
}

func UserQuery(p UserParams) Query[models.User] {
	q := Query[models.User]{
		Search: p.Search,
		Fields: func(u models.User) []string {
			return []string{u.FirstName, u.LastName, u.Email}
		},
		Page:    p.Page,
		PerPage: p.Limit(),
	}

	if p.Role != "" {
		q.Filters = append(q.Filters, func(u models.User) bool { return u.Role == p.Role })
	}
	if want, err := strconv.ParseBool(p.Active); err == nil {
		q.Filters = append(q.Filters, func(u models.User) bool { return u.IsActive == want })
	}

	if p.Sort == SortName {
		q.Compare = func(a, b models.User) int { return compareFold(a.FullName(), b.FullName()) }
	}

	return q
}

type NotificationParams struct {
	ListParams
	Unread bool                    `query:"unread"`
	Type   models.NotificationType `query:"type"`
}

func NotificationQuery(p NotificationParams) Query[models.Notification] {
	q := Query[models.Notification]{
		Search:  p.Search,
		Fields:  func(n models.Notification) []string { return []string{n.Message} },
		Page:    p.Page,
		PerPage: p.Limit(),
		// новые сверху
		Compare: func(a, b models.Notification) int { return b.CreatedAt.Compare(a.CreatedAt) },
	}

	if p.Unread {
		q.Filters = append(q.Filters, func(n models.Notification) bool { return !n.Read })
	}
	if p.Type != "" {
		q.Filters = append(q.Filters, func(n models.Notification) bool { return n.NotificationType == p.Type })
	}

	return q
}

func PendingArtworks(items []models.Artwork) []models.Artwork {
	return Filter(items, func(a models.Artwork) bool { return a.ApprovalStatus == models.StatusPending })
}

func ApprovedArtworks(items []models.Artwork) []models.Artwork {
	return Filter(items, func(a models.Artwork) bool { return a.ApprovalStatus == models.StatusApproved })
}

func ArtworksByArtist(items []models.Artwork, artistID int64) []models.Artwork {
	return Filter(items, func(a models.Artwork) bool { return a.Artist.ID == artistID })
}

func UpcomingEvents(items []models.Event, now time.Time) []models.Event {
	return Filter(items, func(e models.Event) bool { return IsUpcoming(e, now) })
}

func CompletedEvents(items []models.Event, now time.Time) []models.Event {
	return Filter(items, func(e models.Event) bool { return !IsUpcoming(e, now) })
}

// ArtistName имя автора: из вложенной сводки, иначе поиском по списку пользователей
func ArtistName(a models.Artwork, users []models.User) string {
	if a.Artist.Embedded() {
		name := strings.TrimSpace(a.Artist.FirstName + " " + a.Artist.LastName)
		if name != "" {
			return name
		}
		return a.Artist.Email
	}
	for _, u := range users {
		if u.PK == a.Artist.ID {
			return u.FullName()
		}
	}
	return "Unknown"
}

// CategoryCounts количество работ по категориям в порядке models.Categories
func CategoryCounts(items []models.Artwork) []models.CategoryCount {
	counts := make(map[models.Category]int, len(models.Categories))
	for _, a := range items {
		counts[a.Category]++
	}

	out := make([]models.CategoryCount, 0, len(models.Categories))
	for _, c := range models.Categories {
		out = append(out, models.CategoryCount{Category: c, Count: counts[c]})
	}
	return out
}

func UnreadCount(items []models.Notification) int {
	n := 0
	for _, it := range items {
		if !it.Read {
			n++
		}
	}
	return n
}

// TopArtists первые limit авторов по числу работ, затем по лайкам
func TopArtists(artists []models.TopArtist, limit int) []models.TopArtist {
	out := Sort(artists, func(a, b models.TopArtist) int {
		if c := cmp.Compare(b.Uploads, a.Uploads); c != 0 {
			return c
		}
		return cmp.Compare(b.Likes, a.Likes)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
