package resolving

import (
	"fmt"
	"sort"
	"time"

	"github.com/leadflow/lead-manager-api/internal/domain"
)

// mergeGroup consolida um grupo de registros do mesmo email normalizado em
// um único survivor. O grupo chega ordenado por created_at (empate decidido
// pelo id lexicograficamente menor), então o primeiro elemento é o survivor.
// Nenhum dado é perdido: contadores somam, conjuntos unem, listas
// concatenam em ordem temporal e notas são anexadas com marcador.
func mergeGroup(group []*domain.Lead) *domain.Lead {
	survivor := *group[0]
	survivor.Email = NormalizeEmail(survivor.Email)

	for _, duplicate := range group[1:] {
		mergeScalars(&survivor, duplicate)
		mergeEngagement(&survivor.Engagement, duplicate.Engagement)
		mergeNotes(&survivor, duplicate)

		survivor.SourceTypes = unionStrings(survivor.SourceTypes, duplicate.SourceTypes)
		survivor.Messages = append(survivor.Messages, duplicate.Messages...)
		survivor.Sessions = append(survivor.Sessions, duplicate.Sessions...)
	}

	sort.SliceStable(survivor.Messages, func(i, j int) bool {
		return survivor.Messages[i].Timestamp.Before(survivor.Messages[j].Timestamp)
	})
	sort.SliceStable(survivor.Engagement.ActivityLog, func(i, j int) bool {
		return survivor.Engagement.ActivityLog[i].Timestamp.Before(survivor.Engagement.ActivityLog[j].Timestamp)
	})
	sort.SliceStable(survivor.Sessions, func(i, j int) bool {
		return survivor.Sessions[i].StartTime.Before(survivor.Sessions[j].StartTime)
	})

	return &survivor
}

func mergeScalars(survivor, duplicate *domain.Lead) {
	// O nome mais longo tende a ser o mais completo ("Maria" vs "Maria Silva")
	if isBetterName(duplicate.Name, survivor.Name) {
		survivor.Name = duplicate.Name
	}

	if survivor.Company == "" {
		survivor.Company = duplicate.Company
	}
	if survivor.Phone == "" {
		survivor.Phone = duplicate.Phone
	}
	if survivor.Service == "" {
		survivor.Service = duplicate.Service
	}
	if survivor.Source == "" || survivor.Source == domain.SourceWebsite {
		if duplicate.Source != "" && duplicate.Source != domain.SourceWebsite {
			survivor.Source = duplicate.Source
		}
	}
}

func mergeEngagement(survivor *domain.Engagement, duplicate domain.Engagement) {
	survivor.EmailOpenCount += duplicate.EmailOpenCount
	survivor.WebsiteVisits += duplicate.WebsiteVisits
	survivor.PricingPageClick += duplicate.PricingPageClick
	survivor.DemoRequested += duplicate.DemoRequested
	survivor.UniqueSessions += duplicate.UniqueSessions
	survivor.TotalTimeOnSite += duplicate.TotalTimeOnSite

	survivor.FirstVisit = earliest(survivor.FirstVisit, duplicate.FirstVisit)
	survivor.LastVisit = latest(survivor.LastVisit, duplicate.LastVisit)

	survivor.PagesVisited = unionStrings(survivor.PagesVisited, duplicate.PagesVisited)
	survivor.ActivityLog = append(survivor.ActivityLog, duplicate.ActivityLog...)
}

func mergeNotes(survivor, duplicate *domain.Lead) {
	if duplicate.Notes == "" {
		return
	}
	if survivor.Notes == "" {
		survivor.Notes = duplicate.Notes
		return
	}
	survivor.Notes = fmt.Sprintf("%s\n\n[Merged from %s] %s", survivor.Notes, duplicate.ID, duplicate.Notes)
}

func isBetterName(candidate, current string) bool {
	if candidate == "" || candidate == "Unknown" {
		return false
	}
	if current == "" || current == "Unknown" {
		return true
	}
	return len(candidate) > len(current)
}

func unionStrings(base, extra []string) []string {
	seen := make(map[string]bool, len(base)+len(extra))
	union := make([]string, 0, len(base)+len(extra))

	for _, values := range [][]string{base, extra} {
		for _, value := range values {
			if value == "" || seen[value] {
				continue
			}
			seen[value] = true
			union = append(union, value)
		}
	}

	return union
}

func earliest(a, b *time.Time) *time.Time {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if b.Before(*a) {
		return b
	}
	return a
}

func latest(a, b *time.Time) *time.Time {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if b.After(*a) {
		return b
	}
	return a
}
