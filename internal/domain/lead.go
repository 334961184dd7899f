package domain

import "time"

// LeadStatus representa o estágio do lead no funil
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "New"
	LeadStatusContacted LeadStatus = "Contacted"
	LeadStatusQualified LeadStatus = "Qualified"
	LeadStatusConverted LeadStatus = "Converted"
	LeadStatusLost      LeadStatus = "Lost"
)

// Canais de aquisição conhecidos (leadSourceType)
const (
	SourceContactForm = "Contact Form"
	SourceDemoRequest = "Demo Request"
	SourceSignup      = "Signup"
	SourceWebsite     = "Website"
	SourceOther       = "Other"
)

// EngagementField identifica um contador de engajamento incrementável.
// O valor de cada constante é o nome da coluna correspondente; apenas
// valores desta enumeração chegam à camada de armazenamento.
type EngagementField string

const (
	FieldEmailOpenCount   EngagementField = "email_open_count"
	FieldWebsiteVisits    EngagementField = "website_visits"
	FieldPricingPageClick EngagementField = "pricing_page_click"
	FieldDemoRequested    EngagementField = "demo_requested"
)

// EngagementFields é a whitelist de campos aceitos vindos do cliente
var EngagementFields = []EngagementField{
	FieldEmailOpenCount,
	FieldWebsiteVisits,
	FieldPricingPageClick,
	FieldDemoRequested,
}

func (f EngagementField) Valid() bool {
	for _, allowed := range EngagementFields {
		if f == allowed {
			return true
		}
	}
	return false
}

// QualityGrade é a classificação derivada da probabilidade de conversão
type QualityGrade string

const (
	GradeHot     QualityGrade = "Hot"
	GradeWarm    QualityGrade = "Warm"
	GradeCold    QualityGrade = "Cold"
	GradeUnknown QualityGrade = "Unknown"
)

// Lead é o registro canônico de um contato, único por email normalizado
type Lead struct {
	ID          string       `json:"id"`
	Email       string       `json:"email"`
	Name        string       `json:"name"`
	Company     string       `json:"company"`
	Phone       string       `json:"phone"`
	Service     string       `json:"service"`
	Source      string       `json:"source"`
	SourceTypes []string     `json:"lead_source_type"`
	Status      LeadStatus   `json:"status"`
	Notes       string       `json:"notes"`
	Messages    []Message    `json:"messages"`
	Engagement  Engagement   `json:"engagement"`
	Prediction  MLPrediction `json:"ml_prediction"`
	Sessions    []Session    `json:"sessions"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Message é uma mensagem recebida de um canal de entrada
type Message struct {
	Content   string         `json:"content"`
	Source    string         `json:"source"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Engagement concentra os contadores comportamentais do lead.
// Os contadores nunca decrescem fora de um merge de duplicados.
type Engagement struct {
	EmailOpenCount   int             `json:"email_open_count"`
	WebsiteVisits    int             `json:"website_visits"`
	PricingPageClick int             `json:"pricing_page_click"`
	DemoRequested    int             `json:"demo_requested"`
	UniqueSessions   int             `json:"unique_sessions"`
	TotalTimeOnSite  int             `json:"total_time_on_site"`
	FirstVisit       *time.Time      `json:"first_visit,omitempty"`
	LastVisit        *time.Time      `json:"last_visit,omitempty"`
	PagesVisited     []string        `json:"pages_visited"`
	ActivityLog      []ActivityEntry `json:"activity_log"`
}

// ActivityEntry é um evento do log de atividades (append-only)
type ActivityEntry struct {
	Action    string         `json:"action"`
	Timestamp time.Time      `json:"timestamp"`
	SessionID string         `json:"sessionId,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Session agrupa a navegação de uma visita
type Session struct {
	SessionID    string     `json:"sessionId"`
	StartTime    time.Time  `json:"startTime"`
	EndTime      *time.Time `json:"endTime,omitempty"`
	Duration     int        `json:"duration,omitempty"`
	PagesVisited []string   `json:"pagesVisited"`
	Actions      []string   `json:"actions"`
}

// MLFeatures é o vetor de características derivado do engajamento
type MLFeatures struct {
	EmailEngagement float64 `json:"emailEngagement"`
	VisitFrequency  float64 `json:"visitFrequency"`
	PricingInterest float64 `json:"pricingInterest"`
	DemoInterest    float64 `json:"demoInterest"`
}

// MLPrediction guarda o resultado da última pontuação do lead
type MLPrediction struct {
	ConversionProbability float64      `json:"conversion_probability"`
	LastPredicted         *time.Time   `json:"last_predicted,omitempty"`
	Features              MLFeatures   `json:"features"`
	PredictedScore        float64      `json:"predicted_score"`
	QualityGrade          QualityGrade `json:"quality_grade"`
}

// LeadPatch descreve um toque vindo de um canal de entrada. Campos escalares
// vazios não sobrescrevem o valor existente; conjuntos e listas acumulam.
type LeadPatch struct {
	Name       string         `json:"name"`
	Company    string         `json:"company"`
	Phone      string         `json:"phone"`
	Service    string         `json:"service"`
	Message    string         `json:"message"`
	Note       string         `json:"note"`
	SourceType string         `json:"source_type"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}
