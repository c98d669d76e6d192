package postgres_adapter

import (
	"context"
	"errors"
	"fmt"
	"showcase-service/internal/contextkeys"
	"showcase-service/internal/core/domain"
	"showcase-service/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// draftDocument - данные шагов черновика в колонке document
type draftDocument struct {
	BasicInfo       domain.BasicInfo       `json:"basicInfo"`
	Location        domain.Location        `json:"location"`
	Features        domain.Features        `json:"features"`
	Media           domain.Media           `json:"media"`
	HomepageDisplay domain.HomepageDisplay `json:"homepageDisplay"`
	SEO             domain.SEOInfo         `json:"seo"`
	CompletedSteps  []domain.FormStep      `json:"completedSteps"`
}

func newDraftDocument(d *domain.PropertyDraft) draftDocument {
	return draftDocument{
		BasicInfo:       d.BasicInfo,
		Location:        d.Location,
		Features:        d.Features,
		Media:           d.Media,
		HomepageDisplay: d.HomepageDisplay,
		SEO:             d.SEO,
		CompletedSteps:  d.CompletedSteps,
	}
}

type DraftRepository struct {
	pool *pgxpool.Pool
}

func NewDraftRepository(pool *pgxpool.Pool) (*DraftRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &DraftRepository{pool: pool}, nil
}

func (r *DraftRepository) Create(ctx context.Context, d *domain.PropertyDraft) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{"component": "DraftRepository", "method": "Create", "draft_id": d.ID})

	_, err := r.pool.Exec(ctx, `
		INSERT INTO property_drafts (id, source_property_id, document, current_step, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		d.ID, d.SourcePropertyID, newDraftDocument(d), d.CurrentStep, d.CreatedBy, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		repoLogger.Error("Failed to create draft", err, nil)
		return fmt.Errorf("failed to create draft: %w", err)
	}
	return nil
}

func (r *DraftRepository) Get(ctx context.Context, id string) (*domain.PropertyDraft, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{"component": "DraftRepository", "method": "Get", "draft_id": id})

	var (
		d   domain.PropertyDraft
		doc draftDocument
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, source_property_id, document, current_step, created_by, created_at, updated_at
		FROM property_drafts WHERE id = $1`, id,
	).Scan(&d.ID, &d.SourcePropertyID, &doc, &d.CurrentStep, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDraftNotFound
		}
		repoLogger.Error("Failed to load draft", err, nil)
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	d.BasicInfo = doc.BasicInfo
	d.Location = doc.Location
	d.Features = doc.Features
	d.Media = doc.Media
	d.HomepageDisplay = doc.HomepageDisplay
	d.SEO = doc.SEO
	d.CompletedSteps = doc.CompletedSteps
	if d.CompletedSteps == nil {
		d.CompletedSteps = []domain.FormStep{}
	}
	if d.Media.Images == nil {
		d.Media.Images = []domain.Image{}
	}
	return &d, nil
}

func (r *DraftRepository) Update(ctx context.Context, d *domain.PropertyDraft) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{"component": "DraftRepository", "method": "Update", "draft_id": d.ID})

	tag, err := r.pool.Exec(ctx, `
		UPDATE property_drafts SET document = $2, current_step = $3, updated_at = $4 WHERE id = $1`,
		d.ID, newDraftDocument(d), d.CurrentStep, d.UpdatedAt)
	if err != nil {
		repoLogger.Error("Failed to update draft", err, nil)
		return fmt.Errorf("failed to update draft: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDraftNotFound
	}
	return nil
}

func (r *DraftRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM property_drafts WHERE id = $1`, id); err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to delete draft", err, port.Fields{"component": "DraftRepository", "draft_id": id})
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}
