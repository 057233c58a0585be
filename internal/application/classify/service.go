package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mindvault/curator/internal/application"
	domai "github.com/mindvault/curator/internal/domain/ai"
	"github.com/mindvault/curator/internal/domain/audit"
	domain "github.com/mindvault/curator/internal/domain/items"
	"github.com/mindvault/curator/internal/domain/taxonomy"
	"github.com/mindvault/curator/internal/infra/ai/prompt"
)

// Service implements the classification use-case: build prompt → invoke the
// reasoning service → parse and validate → append audit entry → update item.
type Service struct {
	Items domain.Repository
	Logs  audit.Repository
	AI    domai.Completer
	Tax   *taxonomy.Taxonomy
	Clock application.Clock
}

// Result classification hasil validasi
type Result struct {
	PillarID   string   `json:"pillar_id"`
	PillarName string   `json:"pillar_name"`
	TopicID    string   `json:"topic_id"`
	TopicName  string   `json:"topic_name"`
	Summary    string   `json:"summary"`
	Tags       []string `json:"tags"`
	Confidence float64  `json:"confidence"`
	Rationale  string   `json:"rationale"`
}

// ClassificationError indicates the model returned text that could not be
// parsed into a result. Raw is preserved for the audit trail.
type ClassificationError struct {
	Raw string
	Err error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classification failed: %v", e.Err)
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// rawResult untyped model output before validation
type rawResult struct {
	PillarID   string   `json:"pillar_id"`
	TopicID    string   `json:"topic_id"`
	Summary    string   `json:"summary"`
	Tags       []string `json:"tags"`
	Confidence float64  `json:"confidence"`
	Rationale  string   `json:"rationale"`
}

// Run classifies one item and persists the outcome. The item must already
// exist; its status moves to classifying first, then to the terminal state.
func (s *Service) Run(ctx context.Context, itemID domain.ItemID, displayName, text string) (*Result, error) {
	if err := s.setStatus(ctx, itemID, domain.StatusClassifying); err != nil {
		return nil, err
	}

	p := prompt.BuildClassification(s.Tax, displayName, text)

	comp, err := s.AI.Complete(ctx, p, true)
	if err != nil {
		if errors.Is(err, domai.ErrNotConfigured) {
			// no credential: park the item, retryable once a key exists
			if uerr := s.setStatus(ctx, itemID, domain.StatusNeedsAPIKey); uerr != nil {
				return nil, uerr
			}
			return nil, err
		}
		if aerr := s.appendLog(ctx, itemID, p, "error: "+err.Error(), comp); aerr != nil {
			return nil, aerr
		}
		if uerr := s.fail(ctx, itemID, err.Error()); uerr != nil {
			return nil, uerr
		}
		return nil, err
	}

	if aerr := s.appendLog(ctx, itemID, p, comp.Text, comp); aerr != nil {
		return nil, aerr
	}

	res, perr := s.parse(comp.Text)
	if perr != nil {
		if uerr := s.fail(ctx, itemID, perr.Error()); uerr != nil {
			return nil, uerr
		}
		return nil, perr
	}

	status := domain.StatusClassified
	if err := s.Items.Update(ctx, itemID, domain.Patch{
		PillarID:   &res.PillarID,
		PillarName: &res.PillarName,
		TopicID:    &res.TopicID,
		TopicName:  &res.TopicName,
		Summary:    &res.Summary,
		Tags:       &res.Tags,
		Confidence: &res.Confidence,
		Rationale:  &res.Rationale,
		Status:     &status,
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// parse resolves the model's untyped JSON into a validated Result or a
// ClassificationError carrying the raw text.
func (s *Service) parse(raw string) (*Result, error) {
	var rr rawResult
	if err := json.Unmarshal([]byte(stripFences(raw)), &rr); err != nil {
		return nil, &ClassificationError{Raw: raw, Err: err}
	}

	// out-of-range confidence is clamped, not rejected
	conf := rr.Confidence
	if conf < 0 {
		conf = 0
	} else if conf > 1 {
		conf = 1
	}

	// invalid pillar/topic is corrected silently; the summary/tags/rationale
	// are still worth keeping
	pillar, topic := s.Tax.ResolveOrDefault(rr.PillarID, rr.TopicID)

	tags := make([]string, 0, len(rr.Tags))
	for _, t := range rr.Tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			tags = append(tags, t)
		}
	}

	return &Result{
		PillarID:   pillar.ID,
		PillarName: pillar.NamePrimary,
		TopicID:    topic.ID,
		TopicName:  topic.Name,
		Summary:    strings.TrimSpace(rr.Summary),
		Tags:       tags,
		Confidence: conf,
		Rationale:  strings.TrimSpace(rr.Rationale),
	}, nil
}

func (s *Service) appendLog(ctx context.Context, itemID domain.ItemID, promptText, response string, comp domai.Completion) error {
	return s.Logs.Append(ctx, &audit.LogEntry{
		ID:         uuid.New().String(),
		ItemID:     itemID,
		Prompt:     promptText,
		Response:   response,
		Model:      comp.Model,
		TokenCount: comp.TokenCount,
		CreatedAt:  s.Clock.Now(),
	})
}

func (s *Service) setStatus(ctx context.Context, id domain.ItemID, st domain.Status) error {
	return s.Items.Update(ctx, id, domain.Patch{Status: &st})
}

func (s *Service) fail(ctx context.Context, id domain.ItemID, detail string) error {
	st := domain.StatusError
	if detail == "" {
		detail = "classification failed"
	}
	return s.Items.Update(ctx, id, domain.Patch{Status: &st, Rationale: &detail})
}

// stripFences tolerates models that wrap JSON in markdown code fences.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
