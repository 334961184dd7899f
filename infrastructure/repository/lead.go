package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	_ "github.com/lib/pq"
	"github.com/leadflow/lead-manager-api/infrastructure/database/postgres"
	"github.com/leadflow/lead-manager-api/internal/domain"
)

const (
	leadsTable = "leads"

	// Código de erro do Postgres para violação de unicidade
	uniqueViolationCode = "23505"
)

// leadColumns é a lista completa de colunas na ordem usada por SELECT e RETURNING
const leadColumns = `id, email, name, company, phone, service, source, source_types, status, notes, messages,
	email_open_count, website_visits, pricing_page_click, demo_requested, unique_sessions, total_time_on_site,
	first_visit, last_visit, pages_visited, activity_log, sessions,
	conversion_probability, last_predicted, feature_email_engagement, feature_visit_frequency,
	feature_pricing_interest, feature_demo_interest, predicted_score, quality_grade,
	created_at, updated_at`

type LeadRepository interface {
	GetLeadByID(id string) (*domain.Lead, error)
	GetLeadByEmail(email string) (*domain.Lead, error)
	ListLeads() ([]*domain.Lead, error)
	UpsertLead(id, email string, patch *domain.LeadPatch) (*domain.Lead, error)
	IncrementEngagement(id string, field domain.EngagementField) (*domain.Lead, error)
	AppendActivity(id string, entry domain.ActivityEntry) error
	RecordSession(id, sessionID, page string, duration int) error
	SavePrediction(id string, prediction *domain.MLPrediction) error
	ListDuplicateGroups() ([][]*domain.Lead, error)
	MergeInto(ctx context.Context, survivor *domain.Lead, duplicateIDs []string) error
	DropEmailUniqueIndex() error
	EnsureEmailUniqueIndex() error
}

type leadRepository struct {
	conn *postgres.Connection
}

func NewLeadRepository(conn *postgres.Connection) LeadRepository {
	return &leadRepository{
		conn: conn,
	}
}

func (r *leadRepository) GetLeadByID(id string) (*domain.Lead, error) {
	return r.getLead(squirrel.Eq{"id": id})
}

func (r *leadRepository) GetLeadByEmail(email string) (*domain.Lead, error) {
	return r.getLead(squirrel.Eq{"email": email})
}

func (r *leadRepository) getLead(whereClause map[string]interface{}) (*domain.Lead, error) {
	leadSQL, leadArgs, err := squirrel.
		Select(leadColumns).
		From(leadsTable).
		Where(whereClause).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	row := r.conn.QueryRow(leadSQL, leadArgs...)

	lead, err := deserializeLead(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return lead, nil
}

func (r *leadRepository) ListLeads() ([]*domain.Lead, error) {
	leadSQL, leadArgs, err := squirrel.
		Select(leadColumns).
		From(leadsTable).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(leadSQL, leadArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	leads := make([]*domain.Lead, 0)

	for rows.Next() {
		lead, err := deserializeLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return leads, nil
}

// UpsertLead aplica o merge-patch completo em uma única instrução atômica:
// insert-if-absent com ON CONFLICT no email normalizado. Escalares só são
// sobrescritos quando o novo valor é não-vazio; conjuntos e listas acumulam.
func (r *leadRepository) UpsertLead(id, email string, patch *domain.LeadPatch) (*domain.Lead, error) {
	messages := "[]"
	if patch.Message != "" {
		payload, err := json.Marshal([]domain.Message{newInboundMessage(patch)})
		if err != nil {
			return nil, fmt.Errorf("failed to serialize message: %w", err)
		}
		messages = string(payload)
	}

	sourceTypes := []string{}
	if patch.SourceType != "" {
		sourceTypes = append(sourceTypes, patch.SourceType)
	}

	query := squirrel.StatementBuilder.
		Insert(leadsTable).
		Columns("id", "email", "name", "company", "phone", "service", "source", "source_types", "status", "notes", "messages").
		Values(
			id,
			email,
			squirrel.Expr("COALESCE(NULLIF(?, ''), 'Unknown')", patch.Name),
			patch.Company,
			patch.Phone,
			patch.Service,
			squirrel.Expr("COALESCE(NULLIF(?, ''), 'Website')", patch.SourceType),
			pq.Array(sourceTypes),
			string(domain.LeadStatusNew),
			patch.Note,
			squirrel.Expr("?::jsonb", messages),
		).
		PlaceholderFormat(squirrel.Dollar)

	query = query.Suffix(`
			ON CONFLICT (email) DO UPDATE SET
				name = CASE WHEN EXCLUDED.name NOT IN ('', 'Unknown') THEN EXCLUDED.name ELSE leads.name END,
				company = CASE WHEN EXCLUDED.company <> '' THEN EXCLUDED.company ELSE leads.company END,
				phone = CASE WHEN EXCLUDED.phone <> '' THEN EXCLUDED.phone ELSE leads.phone END,
				service = CASE WHEN EXCLUDED.service <> '' THEN EXCLUDED.service ELSE leads.service END,
				source = CASE WHEN EXCLUDED.source <> '' THEN EXCLUDED.source ELSE leads.source END,
				source_types = (
					SELECT COALESCE(array_agg(DISTINCT t), '{}')
					FROM unnest(leads.source_types || EXCLUDED.source_types) AS t
				),
				messages = leads.messages || EXCLUDED.messages,
				notes = CASE
					WHEN EXCLUDED.notes = '' THEN leads.notes
					WHEN leads.notes = '' THEN EXCLUDED.notes
					ELSE leads.notes || E'\n\n[' || to_char(now() AT TIME ZONE 'UTC', 'YYYY-MM-DD HH24:MI:SS') || '] ' || EXCLUDED.notes
				END,
				updated_at = now()
			RETURNING ` + leadColumns)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	row := r.conn.QueryRow(sqlQuery, args...)

	lead, err := deserializeLead(row)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	return lead, nil
}

// newInboundMessage monta a mensagem do toque atual. O timestamp é atribuído
// aqui, na gravação; a ordenação cronológica do histórico depende dele.
func newInboundMessage(patch *domain.LeadPatch) domain.Message {
	return domain.Message{
		Content:   patch.Message,
		Source:    patch.SourceType,
		Timestamp: time.Now().UTC(),
		Metadata:  patch.Metadata,
	}
}

// IncrementEngagement emite um "add 1" atômico direto no banco. Nunca é um
// read-modify-write no aplicativo: dois bumps simultâneos nunca se perdem.
func (r *leadRepository) IncrementEngagement(id string, field domain.EngagementField) (*domain.Lead, error) {
	if !field.Valid() {
		return nil, fmt.Errorf("engagement field %q is not incrementable", field)
	}

	column := string(field)

	queryBuilder := squirrel.
		Update(leadsTable).
		Set(column, squirrel.Expr(column+" + 1")).
		Set("last_visit", squirrel.Expr("now()")).
		Set("first_visit", squirrel.Expr("COALESCE(first_visit, now())")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + leadColumns).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	row := r.conn.QueryRow(sqlQuery, args...)

	lead, err := deserializeLead(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	return lead, nil
}

func (r *leadRepository) AppendActivity(id string, entry domain.ActivityEntry) error {
	payload, err := json.Marshal([]domain.ActivityEntry{entry})
	if err != nil {
		return fmt.Errorf("failed to serialize activity entry: %w", err)
	}

	queryBuilder := squirrel.
		Update(leadsTable).
		Set("activity_log", squirrel.Expr("activity_log || ?::jsonb", string(payload))).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.conn.Exec(sqlQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// RecordSession atualiza a contabilidade de sessão em uma única instrução:
// páginas visitadas acumulam como conjunto, o tempo soma e unique_sessions
// só incrementa quando o sessionId ainda não aparece na lista de sessões.
func (r *leadRepository) RecordSession(id, sessionID, page string, duration int) error {
	session, err := json.Marshal([]domain.Session{{
		SessionID:    sessionID,
		PagesVisited: appendNonEmpty(nil, page),
		Actions:      []string{},
	}})
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}

	const sessionKnown = `sessions @> jsonb_build_array(jsonb_build_object('sessionId', $2::text))`

	sqlQuery := fmt.Sprintf(`
		UPDATE leads SET
			pages_visited = CASE
				WHEN $3::text = '' THEN pages_visited
				ELSE (SELECT COALESCE(array_agg(DISTINCT p), '{}') FROM unnest(array_append(pages_visited, $3::text)) AS p)
			END,
			total_time_on_site = total_time_on_site + $4,
			unique_sessions = unique_sessions + CASE WHEN %[1]s THEN 0 ELSE 1 END,
			sessions = CASE WHEN %[1]s THEN sessions ELSE sessions || $5::jsonb END,
			updated_at = now()
		WHERE id = $1`, sessionKnown)

	result, err := r.conn.Exec(sqlQuery, id, sessionID, page, duration, string(session))
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// SavePrediction persiste probabilidade, score, features e grade em uma
// única escrita por lead.
func (r *leadRepository) SavePrediction(id string, prediction *domain.MLPrediction) error {
	queryBuilder := squirrel.
		Update(leadsTable).
		Set("conversion_probability", prediction.ConversionProbability).
		Set("last_predicted", squirrel.Expr("now()")).
		Set("feature_email_engagement", prediction.Features.EmailEngagement).
		Set("feature_visit_frequency", prediction.Features.VisitFrequency).
		Set("feature_pricing_interest", prediction.Features.PricingInterest).
		Set("feature_demo_interest", prediction.Features.DemoInterest).
		Set("predicted_score", prediction.PredictedScore).
		Set("quality_grade", string(prediction.QualityGrade)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.conn.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("failed to execute query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// ListDuplicateGroups retorna os grupos de registros que compartilham o
// mesmo email normalizado, ordenados por criação (o primeiro é o survivor).
func (r *leadRepository) ListDuplicateGroups() ([][]*domain.Lead, error) {
	leadSQL, leadArgs, err := squirrel.
		Select(leadColumns).
		From(leadsTable).
		OrderBy("lower(trim(email)) ASC", "created_at ASC", "id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(leadSQL, leadArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	groups := make([][]*domain.Lead, 0)
	var current []*domain.Lead
	var currentKey string

	for rows.Next() {
		lead, err := deserializeLead(rows)
		if err != nil {
			return nil, err
		}

		key := normalizeKey(lead.Email)
		if key != currentKey && current != nil {
			if len(current) > 1 {
				groups = append(groups, current)
			}
			current = nil
		}

		currentKey = key
		current = append(current, lead)
	}

	if len(current) > 1 {
		groups = append(groups, current)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return groups, nil
}

// MergeInto grava o survivor consolidado e remove os duplicados na mesma
// transação, para que nenhum leitor observe o grupo pela metade.
func (r *leadRepository) MergeInto(ctx context.Context, survivor *domain.Lead, duplicateIDs []string) error {
	messages, err := json.Marshal(survivor.Messages)
	if err != nil {
		return fmt.Errorf("failed to serialize messages: %w", err)
	}
	activityLog, err := json.Marshal(survivor.Engagement.ActivityLog)
	if err != nil {
		return fmt.Errorf("failed to serialize activity log: %w", err)
	}
	sessions, err := json.Marshal(survivor.Sessions)
	if err != nil {
		return fmt.Errorf("failed to serialize sessions: %w", err)
	}

	queryBuilder := squirrel.
		Update(leadsTable).
		Set("email", survivor.Email).
		Set("name", survivor.Name).
		Set("company", survivor.Company).
		Set("phone", survivor.Phone).
		Set("service", survivor.Service).
		Set("source", survivor.Source).
		Set("source_types", pq.Array(survivor.SourceTypes)).
		Set("notes", survivor.Notes).
		Set("messages", squirrel.Expr("?::jsonb", string(messages))).
		Set("email_open_count", survivor.Engagement.EmailOpenCount).
		Set("website_visits", survivor.Engagement.WebsiteVisits).
		Set("pricing_page_click", survivor.Engagement.PricingPageClick).
		Set("demo_requested", survivor.Engagement.DemoRequested).
		Set("unique_sessions", survivor.Engagement.UniqueSessions).
		Set("total_time_on_site", survivor.Engagement.TotalTimeOnSite).
		Set("first_visit", survivor.Engagement.FirstVisit).
		Set("last_visit", survivor.Engagement.LastVisit).
		Set("pages_visited", pq.Array(survivor.Engagement.PagesVisited)).
		Set("activity_log", squirrel.Expr("?::jsonb", string(activityLog))).
		Set("sessions", squirrel.Expr("?::jsonb", string(sessions))).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": survivor.ID}).
		PlaceholderFormat(squirrel.Dollar)

	updateSQL, updateArgs, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	deleteSQL, deleteArgs, err := squirrel.
		Delete(leadsTable).
		Where(squirrel.Eq{"id": duplicateIDs}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec(updateSQL, updateArgs...); err != nil {
			return fmt.Errorf("failed to update survivor: %w", err)
		}
		if _, err := tx.Exec(deleteSQL, deleteArgs...); err != nil {
			return fmt.Errorf("failed to delete duplicates: %w", err)
		}
		return nil
	})
}

// DropEmailUniqueIndex remove a restrição de unicidade durante um passe de
// deduplicação, evitando violações no meio dos merges.
func (r *leadRepository) DropEmailUniqueIndex() error {
	_, err := r.conn.Exec(`DROP INDEX IF EXISTS leads_email_key`)
	return err
}

// EnsureEmailUniqueIndex restabelece a restrição de unicidade do email
// normalizado após o passe de deduplicação.
func (r *leadRepository) EnsureEmailUniqueIndex() error {
	_, err := r.conn.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS leads_email_key ON leads (email)`)
	return err
}

// IsUniqueViolation identifica a violação de chave única do Postgres
func IsUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return string(pqErr.Code) == uniqueViolationCode
	}
	return false
}

type rowScanner interface {
	Scan(dest ...any) error
}

func deserializeLead(row rowScanner) (*domain.Lead, error) {
	lead := &domain.Lead{}

	var (
		sourceTypes  pq.StringArray
		pagesVisited pq.StringArray
		messages     []byte
		activityLog  []byte
		sessions     []byte
	)

	if err := row.Scan(
		&lead.ID,
		&lead.Email,
		&lead.Name,
		&lead.Company,
		&lead.Phone,
		&lead.Service,
		&lead.Source,
		&sourceTypes,
		&lead.Status,
		&lead.Notes,
		&messages,
		&lead.Engagement.EmailOpenCount,
		&lead.Engagement.WebsiteVisits,
		&lead.Engagement.PricingPageClick,
		&lead.Engagement.DemoRequested,
		&lead.Engagement.UniqueSessions,
		&lead.Engagement.TotalTimeOnSite,
		&lead.Engagement.FirstVisit,
		&lead.Engagement.LastVisit,
		&pagesVisited,
		&activityLog,
		&sessions,
		&lead.Prediction.ConversionProbability,
		&lead.Prediction.LastPredicted,
		&lead.Prediction.Features.EmailEngagement,
		&lead.Prediction.Features.VisitFrequency,
		&lead.Prediction.Features.PricingInterest,
		&lead.Prediction.Features.DemoInterest,
		&lead.Prediction.PredictedScore,
		&lead.Prediction.QualityGrade,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	); err != nil {
		return nil, err
	}

	lead.SourceTypes = sourceTypes
	lead.Engagement.PagesVisited = pagesVisited

	if err := json.Unmarshal(messages, &lead.Messages); err != nil {
		return nil, fmt.Errorf("failed to deserialize messages: %w", err)
	}
	if err := json.Unmarshal(activityLog, &lead.Engagement.ActivityLog); err != nil {
		return nil, fmt.Errorf("failed to deserialize activity log: %w", err)
	}
	if err := json.Unmarshal(sessions, &lead.Sessions); err != nil {
		return nil, fmt.Errorf("failed to deserialize sessions: %w", err)
	}

	return lead, nil
}

func appendNonEmpty(values []string, value string) []string {
	if value == "" {
		if values == nil {
			return []string{}
		}
		return values
	}
	return append(values, value)
}

func normalizeKey(email string) string {
	// Mantido em sincronia com resolving.NormalizeEmail; duplicado aqui para
	// não criar dependência do pacote de usecases na camada de repositório.
	return strings.ToLower(strings.TrimSpace(email))
}
