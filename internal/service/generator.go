// Package service orchestrates the generation pipeline: schema
// operations flow through the whitelist gate and the tool factory, and
// each synthesized tool is registered with the tool sink.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caregate/caregate/internal/adapter/outbound/audit"
	"github.com/caregate/caregate/internal/domain/schema"
	"github.com/caregate/caregate/internal/domain/tool"
)

// OperationSource enumerates the parsed schema operations.
type OperationSource interface {
	Operations() []schema.Operation
}

// Gate decides whether an operation may become a tool.
type Gate interface {
	IsAllowed(operationID string) bool
}

// ToolSink accepts synthesized tools for later dispatch. The sink owns
// invocation routing once a tool is registered.
type ToolSink interface {
	Register(t tool.GeneratedTool) error
}

// Builder synthesizes the callable for one operation.
type Builder interface {
	Build(op schema.Operation) tool.GeneratedTool
}

// Generator drives the pipeline. Generation runs once at startup,
// sequentially, before any tool becomes callable.
type Generator struct {
	source  OperationSource
	gate    Gate
	builder Builder
	sink    ToolSink
	logger  *slog.Logger

	// optional instrumentation
	metrics *Metrics
	audit   *audit.Recorder
}

// NewGenerator creates a Generator.
func NewGenerator(source OperationSource, gate Gate, builder Builder, sink ToolSink, logger *slog.Logger) *Generator {
	return &Generator{
		source:  source,
		gate:    gate,
		builder: builder,
		sink:    sink,
		logger:  logger,
	}
}

// WithMetrics attaches invocation and generation metrics.
func (g *Generator) WithMetrics(m *Metrics) *Generator {
	g.metrics = m
	return g
}

// WithAudit attaches an audit recorder; every invocation of every
// generated tool writes one entry.
func (g *Generator) WithAudit(r *audit.Recorder) *Generator {
	g.audit = r
	return g
}

// GenerateAll walks every operation in enumeration order, gates it,
// builds the allowed ones, and registers them with the sink. Returns
// the number of tools registered. A sink registration failure aborts:
// a half-registered tool set is worse than none.
func (g *Generator) GenerateAll() (int, error) {
	var count int
	for _, op := range g.source.Operations() {
		if !g.gate.IsAllowed(op.ID) {
			g.logger.Info("operation excluded by policy", "operation", op.ID)
			if g.metrics != nil {
				g.metrics.PolicyDecisions.WithLabelValues("deny").Inc()
			}
			continue
		}
		if g.metrics != nil {
			g.metrics.PolicyDecisions.WithLabelValues("allow").Inc()
		}

		generated := g.instrument(g.builder.Build(op))
		if err := g.sink.Register(generated); err != nil {
			return count, fmt.Errorf("register tool %s: %w", generated.Name, err)
		}
		count++
		g.logger.Debug("tool registered",
			"tool", generated.Name,
			"method", strings.ToUpper(op.Method),
			"path", op.Path)
	}

	if g.metrics != nil {
		g.metrics.ToolsGenerated.Set(float64(count))
	}
	g.logger.Info("tool generation complete", "registered", count)
	return count, nil
}

// instrument wraps a tool's invoker with metrics and audit recording.
// The wrapped invoker still always returns the envelope untouched.
func (g *Generator) instrument(t tool.GeneratedTool) tool.GeneratedTool {
	if g.metrics == nil && g.audit == nil {
		return t
	}

	base := t.Invoke
	op := t.Operation
	t.Invoke = func(ctx context.Context, args map[string]any) tool.Result {
		start := time.Now()
		res := base(ctx, args)
		elapsed := time.Since(start)

		if g.metrics != nil {
			status := "ok"
			if !res.Success {
				status = "error"
			}
			g.metrics.Invocations.WithLabelValues(t.Name, status).Inc()
			g.metrics.InvocationDuration.WithLabelValues(t.Name).Observe(elapsed.Seconds())
		}
		if g.audit != nil {
			g.audit.Record(audit.Entry{
				Tool:       t.Name,
				Method:     strings.ToUpper(op.Method),
				Path:       op.Path,
				Status:     res.Status,
				Success:    res.Success,
				DurationMS: elapsed.Milliseconds(),
			})
		}
		return res
	}
	return t
}
