// Package deploy resolves a merged configuration and runtime facts into a
// final deployable document: placeholder resolution, sanitization, and
// template injection.
package deploy

import (
	"context"

	"github.com/google/uuid"

	"github.com/inboxeng/deploykit/engine/core"
	"github.com/inboxeng/deploykit/engine/merge"
	"github.com/inboxeng/deploykit/engine/schema"
	"github.com/inboxeng/deploykit/pkg/logger"
)

// Options is deployment-pipeline policy.
type Options struct {
	// StrictConsistency makes orphan categories fatal (fail closed). When
	// false, orphans are logged and the deployment proceeds.
	StrictConsistency bool
	// MaxRosterSlots caps team-member slot tokens.
	MaxRosterSlots int
}

// DefaultOptions match the fail-closed defaults of the engine.
func DefaultOptions() Options {
	return Options{StrictConsistency: true, MaxRosterSlots: 5}
}

// Request is one deployment call.
type Request struct {
	CategoryIDs []schema.CategoryID
	Runtime     *RuntimeContext
	Template    string
}

// DeployableConfig is the fully substituted deployment document. It is
// request-scoped and never persisted by this engine.
type DeployableConfig struct {
	RequestID  string
	Categories []schema.CategoryID
	Document   string
}

// Deployment runs the full pipeline: load schemas, merge the three
// layers, cross-validate, resolve and sanitize placeholders, inject the
// template. Every stage is pure and synchronous; a failure at any stage
// refuses the deployment entirely.
type Deployment struct {
	loader *schema.Loader
	opts   Options
	log    logger.Logger
}

// NewDeployment wires a deployment pipeline over a schema loader.
func NewDeployment(loader *schema.Loader, opts Options) *Deployment {
	if opts.MaxRosterSlots < 1 {
		opts.MaxRosterSlots = DefaultOptions().MaxRosterSlots
	}
	return &Deployment{
		loader: loader,
		opts:   opts,
		log:    logger.GetDefault(),
	}
}

// Execute produces the deployable document for one request.
func (d *Deployment) Execute(ctx context.Context, req *Request) (*DeployableConfig, error) {
	if req == nil || len(req.CategoryIDs) == 0 {
		return nil, core.NewErrorf(core.ErrCodeInvalidArgument, "at least one category must be selected")
	}
	if req.Runtime == nil {
		return nil, core.NewErrorf(core.ErrCodeInvalidArgument, "runtime context is required")
	}
	if req.Template == "" {
		return nil, core.NewErrorf(core.ErrCodeInvalidArgument, "template document is required")
	}
	requestID := uuid.NewString()
	log := d.log.With("request_id", requestID)

	schemas, err := d.loader.LoadAll(ctx, req.CategoryIDs)
	if err != nil {
		return nil, err
	}
	log.Debug("schemas loaded", "categories", len(schemas))

	cfg, err := merge.Schemas(schemas)
	if err != nil {
		return nil, err
	}
	if result := merge.Validate(cfg); !result.Valid {
		if d.opts.StrictConsistency {
			return nil, result.Err()
		}
		log.Warn("merged configuration has orphan categories", "orphans", result.Orphans())
	}

	pm, err := ResolvePlaceholders(cfg, req.Runtime, d.opts.MaxRosterSlots)
	if err != nil {
		return nil, err
	}
	document, err := Inject(req.Template, Sanitize(pm))
	if err != nil {
		return nil, err
	}
	log.Info("deployment document generated",
		"categories", len(req.CategoryIDs), "tokens", len(pm))
	return &DeployableConfig{
		RequestID:  requestID,
		Categories: append([]schema.CategoryID{}, req.CategoryIDs...),
		Document:   document,
	}, nil
}
