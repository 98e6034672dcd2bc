package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/depcache/internal/core/domain"
	"go.trai.ch/depcache/internal/core/ports"
	"go.trai.ch/zerr"
)

// Invalidation reasons reported to metrics.
const (
	ReasonChange = "change"
	ReasonGuard  = "guard"
)

// Services are the collaborators of a Session.
type Services struct {
	Resolver ports.EdgeResolver
	Engine   ports.Fingerprinter
	Store    ports.ResultStore
	Compiler ports.Compiler
	Logger   ports.Logger
	Tracer   ports.Tracer
	Metrics  ports.Metrics
}

// Session is one opened configuration. Fingerprinting, transforms and builds
// are serialized; change notifications may arrive from any goroutine.
type Session struct {
	cfg *domain.Config
	svc Services

	mu sync.Mutex
}

// NewSession creates a session over the given services.
func NewSession(cfg *domain.Config, svc Services) *Session {
	return &Session{cfg: cfg, svc: svc}
}

// Config returns the configuration the session was opened with.
func (s *Session) Config() *domain.Config {
	return s.cfg
}

// Fingerprint reads the module at path and fingerprints it with its dependencies.
func (s *Session) Fingerprint(ctx context.Context, path string) (domain.Fingerprint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fileID, code, err := s.read(path)
	if err != nil {
		return domain.Fingerprint{}, err
	}
	return s.fingerprint(ctx, fileID, code)
}

func (s *Session) fingerprint(ctx context.Context, fileID, code string) (domain.Fingerprint, error) {
	_, span := s.svc.Tracer.Start(ctx, "fingerprint", ports.WithAttribute("file", s.rel(fileID)))
	defer span.End()

	fp, err := s.svc.Engine.GetHash(fileID, code)
	if err != nil {
		span.RecordError(err)
		return domain.Fingerprint{}, err
	}
	span.SetAttribute("modules", fp.Stats.Calls)
	span.SetAttribute("hits", fp.Stats.CacheHits)
	s.svc.Metrics.ObserveFingerprint(fp.Stats)
	return fp, nil
}

// Transform returns the artifact of a module, from the result cache when its
// fingerprint is known and from the compiler otherwise.
func (s *Session) Transform(ctx context.Context, fileID, code string) (domain.TransformResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.transform(ctx, fileID, code)
}

func (s *Session) transform(ctx context.Context, fileID, code string) (domain.TransformResult, error) {
	ctx, span := s.svc.Tracer.Start(ctx, "transform", ports.WithAttribute("file", s.rel(fileID)))
	defer span.End()

	result := domain.TransformResult{FileID: fileID, Outcome: domain.OutcomeFailed}

	fp, err := s.fingerprint(ctx, fileID, code)
	if err != nil {
		span.RecordError(err)
		s.svc.Metrics.ObserveTransform(result.Outcome)
		return result, err
	}
	result.Hash = fp.Hash

	if entry, ok := s.svc.Store.Get(fp.Hash); ok {
		result.Outcome = domain.OutcomeCached
		result.Artifact = entry.Artifact
		span.SetAttribute("outcome", string(result.Outcome))
		s.svc.Metrics.ObserveTransform(result.Outcome)
		return result, nil
	}

	artifact, err := s.compile(ctx, fileID, code)
	if err != nil {
		span.RecordError(err)
		s.svc.Metrics.ObserveTransform(result.Outcome)
		return result, err
	}
	s.svc.Store.Put(fp.Hash, fileID, artifact)

	result.Outcome = domain.OutcomeCompiled
	result.Artifact = artifact
	span.SetAttribute("outcome", string(result.Outcome))
	s.svc.Metrics.ObserveTransform(result.Outcome)
	return result, nil
}

func (s *Session) compile(ctx context.Context, fileID, code string) (domain.Artifact, error) {
	ctx, span := s.svc.Tracer.Start(ctx, "compile", ports.WithAttribute("file", s.rel(fileID)))
	defer span.End()

	artifact, err := s.svc.Compiler.Compile(ctx, fileID, code)
	if err != nil {
		span.RecordError(err)
		return domain.Artifact{}, err
	}
	return artifact, nil
}

// BuildOptions configures a build.
type BuildOptions struct {
	// OutDir receives one artifact per module when set.
	OutDir string
}

// Build transforms every path in order. A failing module does not stop the
// build; the returned error then lists every failure.
func (s *Session) Build(ctx context.Context, paths []string, opts BuildOptions) ([]domain.TransformResult, error) {
	if len(paths) == 0 {
		return nil, domain.ErrNoEntriesSpecified
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := s.svc.Tracer.Start(ctx, "build", ports.WithAttribute("modules", len(paths)))
	defer span.End()

	results := make([]domain.TransformResult, 0, len(paths))
	var errs error
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result, err := s.buildOne(ctx, path, opts)
		results = append(results, result)
		if err != nil {
			errs = errors.Join(errs, zerr.With(err, "file", s.rel(result.FileID)))
		}
	}

	if errs != nil {
		span.RecordError(errs)
		return results, errors.Join(domain.ErrBuildFailed, errs)
	}
	return results, nil
}

func (s *Session) buildOne(ctx context.Context, path string, opts BuildOptions) (domain.TransformResult, error) {
	fileID, code, err := s.read(path)
	if err != nil {
		s.svc.Metrics.ObserveTransform(domain.OutcomeFailed)
		return domain.TransformResult{FileID: fileID, Outcome: domain.OutcomeFailed}, err
	}

	result, err := s.transform(ctx, fileID, code)
	if err != nil {
		return result, err
	}

	if opts.OutDir != "" {
		if err := s.writeArtifact(opts.OutDir, result); err != nil {
			result.Outcome = domain.OutcomeFailed
			return result, err
		}
	}
	return result, nil
}

// writeArtifact stores the artifact under outDir, mirroring the module's path
// below the root with a .js extension. A source map goes next to it.
func (s *Session) writeArtifact(outDir string, result domain.TransformResult) error {
	rel := s.rel(result.FileID)
	if filepath.IsAbs(rel) {
		rel = filepath.Base(rel)
	}
	target := filepath.Join(outDir, filepath.FromSlash(strings.TrimSuffix(rel, filepath.Ext(rel))+".js"))

	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArtifactWriteFailed.Error()), "path", target)
	}
	if err := os.WriteFile(target, []byte(result.Artifact.Code), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArtifactWriteFailed.Error()), "path", target)
	}
	if result.Artifact.Map != "" {
		if err := os.WriteFile(target+".map", []byte(result.Artifact.Map), domain.FilePerm); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrArtifactWriteFailed.Error()), "path", target+".map")
		}
	}
	return nil
}

// HandleChange drops every fingerprint that depends on path. A change to a
// guard file also revalidates the whole result cache.
func (s *Session) HandleChange(path string) error {
	fileID, err := filepath.Abs(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFailedToGetRoot.Error()), "path", path)
	}

	s.svc.Engine.Invalidate(fileID)
	s.svc.Metrics.ObserveInvalidation(ReasonChange)

	if !s.cfg.IsGuardFile(fileID) {
		return nil
	}
	reset, err := s.svc.Store.CheckConfigFiles()
	if err != nil {
		return err
	}
	if reset {
		s.svc.Metrics.ObserveInvalidation(ReasonGuard)
	}
	return nil
}

// CheckConfigFiles revalidates the result cache against the guard files.
func (s *Session) CheckConfigFiles() (bool, error) {
	return s.svc.Store.CheckConfigFiles()
}

// CacheStats summarizes the result cache.
func (s *Session) CacheStats() domain.CacheStats {
	return s.svc.Store.Stats()
}

// EngineStats returns the cumulative fingerprint counters.
func (s *Session) EngineStats() domain.EngineStats {
	return s.svc.Engine.Stats()
}

// Graph walks the imports reachable from paths and returns them as an explicit graph.
func (s *Session) Graph(paths []string) (*domain.ModuleGraph, error) {
	if len(paths) == 0 {
		return nil, domain.ErrNoEntriesSpecified
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g := domain.NewModuleGraph()
	for _, path := range paths {
		fileID, code, err := s.read(path)
		if err != nil {
			return nil, err
		}
		if g.Has(fileID) {
			continue
		}
		var chain []string
		if spec, ok := s.svc.Resolver.ImportPath(fileID); ok {
			chain = append(chain, spec)
		}
		if err := s.walk(g, fileID, code, chain); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (s *Session) walk(g *domain.ModuleGraph, fileID, code string, chain []string) error {
	edges := s.svc.Resolver.Edges(fileID, code, chain)
	if err := g.AddModule(fileID, code, edges); err != nil {
		return err
	}
	for _, edge := range edges {
		if g.Has(edge.FileID) {
			continue
		}
		mod, err := s.svc.Resolver.ReadModule(edge, fileID)
		if err != nil {
			return err
		}
		if g.Has(mod.FileID) {
			continue
		}
		if err := s.walk(g, mod.FileID, mod.Code, append(chain, edge.Specifier)); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes pending cache writes.
func (s *Session) Close() error {
	return s.svc.Store.Close()
}

// read loads a module from disk and returns its id and content.
func (s *Session) read(path string) (string, string, error) {
	fileID, err := filepath.Abs(path)
	if err != nil {
		return path, "", zerr.With(zerr.Wrap(err, domain.ErrFailedToGetRoot.Error()), "path", path)
	}
	//nolint:gosec // Paths are chosen by the user
	content, err := os.ReadFile(fileID)
	if err != nil {
		return fileID, "", zerr.With(zerr.Wrap(err, domain.ErrModuleRead.Error()), "file_id", fileID)
	}
	return fileID, string(content), nil
}

func (s *Session) rel(fileID string) string {
	return relPath(s.cfg.Root, fileID)
}

// Summary renders the outcome counts of a build, e.g. "2 cached, 1 compiled".
func Summary(results []domain.TransformResult) string {
	counts := make(map[domain.Outcome]int)
	for _, r := range results {
		counts[r.Outcome]++
	}
	parts := make([]string, 0, 3)
	for _, outcome := range []domain.Outcome{domain.OutcomeCached, domain.OutcomeCompiled, domain.OutcomeFailed} {
		if n := counts[outcome]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, outcome))
		}
	}
	if len(parts) == 0 {
		return "nothing to do"
	}
	return strings.Join(parts, ", ")
}
