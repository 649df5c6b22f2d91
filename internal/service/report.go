package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/mealtracker/backend/internal/models"
	"github.com/pageza/mealtracker/backend/internal/types"
)

// DiaryLoader loads a user's diary.
type DiaryLoader interface {
	Load(ctx context.Context, userID uuid.UUID) (*Diary, error)
}

// HealthContextSource supplies the optional health notes for a user.
type HealthContextSource interface {
	HealthContext(ctx context.Context, userID uuid.UUID) (string, error)
}

// GeneratedReport is the outcome of a successful generation. Report is nil
// when the content could not be saved.
type GeneratedReport struct {
	Content *types.ReportContent
	Report  *models.Report
}

// ReportService runs the generation pipeline and serves stored reports.
type ReportService struct {
	diary    DiaryLoader
	profiles HealthContextSource
	composer *PromptComposer
	gateway  *ReportGateway
	store    *ReportStore
	archive  *ReportArchive
	logger   *zap.Logger
	now      func() time.Time
}

func NewReportService(
	diary DiaryLoader,
	profiles HealthContextSource,
	composer *PromptComposer,
	gateway *ReportGateway,
	store *ReportStore,
	archive *ReportArchive,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		diary:    diary,
		profiles: profiles,
		composer: composer,
		gateway:  gateway,
		store:    store,
		archive:  archive,
		logger:   logger,
		now:      time.Now,
	}
}

// Generate loads the diary, composes the prompt, calls the model and saves
// the result. Saving is best effort: a failed save is logged and the
// content is still returned.
func (s *ReportService) Generate(ctx context.Context, userID uuid.UUID) (*GeneratedReport, error) {
	diary, err := s.diary.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	healthContext, err := s.profiles.HealthContext(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		healthContext = ""
	}

	prompt, err := s.composer.Compose(diary, s.now(), healthContext)
	if err != nil {
		return nil, generationError("failed to prepare report request", err)
	}

	content, err := s.gateway.Generate(ctx, prompt, diary.Stats)
	if err != nil {
		return nil, err
	}

	result := &GeneratedReport{Content: content}
	report, err := s.store.Create(ctx, userID, content)
	if err != nil {
		s.logger.Error("failed to save generated report",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return result, nil
	}
	result.Report = report

	if err := s.archive.Put(ctx, report); err != nil {
		s.logger.Warn("failed to archive report",
			zap.String("report_id", report.ID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("report generated",
		zap.String("user_id", userID.String()),
		zap.String("report_id", report.ID.String()),
		zap.Int("meals", diary.Stats.TotalMeals),
		zap.Int("symptoms", diary.Stats.TotalSymptoms),
	)
	return result, nil
}

func (s *ReportService) List(ctx context.Context, userID uuid.UUID, limit int) ([]types.ReportSummary, error) {
	reports, err := s.store.List(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	summaries := make([]types.ReportSummary, 0, len(reports))
	for i := range reports {
		summaries = append(summaries, Summarize(&reports[i]))
	}
	return summaries, nil
}

func (s *ReportService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Report, error) {
	return s.store.Get(ctx, userID, id)
}

func (s *ReportService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.store.Delete(ctx, userID, id); err != nil {
		return err
	}
	if err := s.archive.Delete(ctx, userID, id); err != nil {
		s.logger.Warn("failed to remove archived report",
			zap.String("report_id", id.String()),
			zap.Error(err),
		)
	}
	return nil
}

// ExportURL returns a presigned link to the archived copy of an owned report.
func (s *ReportService) ExportURL(ctx context.Context, userID, id uuid.UUID) (string, error) {
	if !s.archive.Enabled() {
		return "", ErrArchiveDisabled
	}
	if _, err := s.store.Get(ctx, userID, id); err != nil {
		return "", err
	}
	return s.archive.ExportURL(ctx, userID, id)
}
