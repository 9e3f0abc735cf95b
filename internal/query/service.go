// Package query is the façade the HTTP layer talks to. It runs every read
// through the cache, invalidates after every write and turns outcomes into
// envelopes.
package query

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"resumebank/internal/cache"
	"resumebank/internal/config"
	"resumebank/internal/domain"
	models "resumebank/internal/domain/models/resumebank"
	rbSvc "resumebank/internal/domain/services/resumebank"
	"resumebank/internal/httputil"
)

// Services groups the business services behind the façade
type Services struct {
	Banks     rbSvc.BankService
	Companies rbSvc.CompanyService
	Folders   rbSvc.FolderService
	Resumes   rbSvc.ResumeService
	Search    rbSvc.SearchService
	Extractor rbSvc.Extractor
}

// Service composes the business services with the cache layer
type Service struct {
	svc     Services
	cache   *cache.Layer
	resetID string
	logger  *slog.Logger
}

// NewService creates the façade. resetID guards ResetCache; an empty value
// disables the reset.
func NewService(svc Services, layer *cache.Layer, resetID string, logger *slog.Logger) *Service {
	return &Service{
		svc:     svc,
		cache:   layer,
		resetID: resetID,
		logger:  logger,
	}
}

// loader computes the payload of a read plus the tags it depends on.
// The tags are returned on business errors too, so a cached 404 is dropped
// once the missing resource appears.
type loader func(ctx context.Context) (any, []cache.Tag, error)

// read serves key from the cache or computes it. Business failures are cached
// like successes; infrastructure faults are returned uncached.
func (s *Service) read(ctx context.Context, key, failMessage string, load loader) httputil.Envelope {
	env, err := cache.Remember(ctx, s.cache, key, func(ctx context.Context) (httputil.Envelope, []cache.Tag, error) {
		data, tags, err := load(ctx)
		if err != nil {
			if domain.IsBusinessError(err) {
				return httputil.FromError(err, failMessage), tags, nil
			}
			return httputil.Envelope{}, nil, err
		}
		return httputil.OK(data, ""), tags, nil
	})
	if err != nil {
		return s.fault(err, failMessage, "key", key)
	}
	return env
}

// written invalidates tags after a successful write and returns env
func (s *Service) written(ctx context.Context, env httputil.Envelope, tags ...cache.Tag) httputil.Envelope {
	s.cache.Invalidate(ctx, tags...)
	return env
}

// failed maps a write error. Nothing is invalidated.
func (s *Service) failed(err error, failMessage string, args ...any) httputil.Envelope {
	if domain.IsBusinessError(err) {
		return httputil.FromError(err, failMessage)
	}
	return s.fault(err, failMessage, args...)
}

func (s *Service) fault(err error, failMessage string, args ...any) httputil.Envelope {
	s.logger.Error(failMessage, append(args, "error", err)...)
	return httputil.FromError(err, failMessage)
}

// folderTags tags each non-empty folder id of a bank
func folderTags(bankID string, folderIDs ...string) []cache.Tag {
	tags := make([]cache.Tag, 0, len(folderIDs))
	for _, id := range folderIDs {
		if id != "" {
			tags = append(tags, cache.FolderTag(bankID, id))
		}
	}
	return tags
}

// structureTags covers every view that shows counts or the root list of a bank
func structureTags(bankID string) []cache.Tag {
	return []cache.Tag{cache.BanksTag(), cache.BankTag(bankID), cache.FoldersTag(bankID)}
}

// Status returns a random number that stays the same while the cache holds it
func (s *Service) Status(ctx context.Context) httputil.Envelope {
	ttl := time.Duration(config.StatusCacheTTLSeconds) * time.Second
	env, err := cache.RememberFor(ctx, s.cache, cache.StatusKey(), ttl,
		func(context.Context) (httputil.Envelope, []cache.Tag, error) {
			return httputil.OK(map[string]int{"value": rand.IntN(1_000_000)}, "ok"), nil, nil
		})
	if err != nil {
		return s.fault(err, "failed to read status")
	}
	return env
}

// Health reports liveness. The process keeps serving while the cache breaker
// is open, so a non-closed breaker is "degraded", not a failure.
func (s *Service) Health(context.Context) httputil.Envelope {
	state := s.cache.Health()
	status := "ok"
	if state != cache.HealthClosed {
		status = "degraded"
		s.logger.Warn("health degraded", "cache", state)
	}
	return httputil.OK(map[string]string{"status": status, "cache": state}, "")
}

// ResetCache flushes the cache when id matches the configured reset id
func (s *Service) ResetCache(ctx context.Context, id string) httputil.Envelope {
	if s.resetID == "" || id != s.resetID {
		return httputil.Fail(http.StatusForbidden, "invalid cache reset id", nil)
	}
	if err := s.cache.Reset(ctx); err != nil {
		return s.fault(err, "failed to reset cache")
	}
	return httputil.OK(nil, "cache reset")
}

// ExtractResume structures résumé text. Results are not cached.
func (s *Service) ExtractResume(ctx context.Context, text string) httputil.Envelope {
	req, err := s.svc.Extractor.Extract(ctx, text)
	if err != nil {
		return s.failed(err, "failed to extract resume")
	}
	return httputil.OK(req, "resume extracted")
}

// ExtractResumePDF structures the text layer of a PDF résumé. Not cached.
func (s *Service) ExtractResumePDF(ctx context.Context, data []byte) httputil.Envelope {
	req, err := s.svc.Extractor.ExtractPDF(ctx, data)
	if err != nil {
		return s.failed(err, "failed to extract resume", "bytes", len(data))
	}
	return httputil.OK(req, "resume extracted")
}

// DownloadAttachment bypasses the cache. The envelope is only meaningful
// when the blob is nil.
func (s *Service) DownloadAttachment(ctx context.Context, resumeID string) (*models.Blob, httputil.Envelope) {
	blob, err := s.svc.Resumes.DownloadAttachment(ctx, resumeID)
	if err != nil {
		return nil, s.failed(err, "failed to download attachment", "resume_id", resumeID)
	}
	return blob, httputil.OK(nil, "")
}
