// Package ingest discovers and parses JSON report documents from a directory.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/devinsight/internal/contract"
	"github.com/huangsam/devinsight/schema"
)

// Loader reads report documents off the filesystem.
type Loader struct{}

var _ contract.DocumentSource = &Loader{} // Compile-time check

// NewLoader returns a filesystem-backed document source.
func NewLoader() *Loader {
	return &Loader{}
}

// Load walks cfg.InputDir for *.json files, applies the ignore
// patterns, and parses whatever remains. Individual parse failures are
// recorded in the result and skipped; the run only fails outright when
// the directory itself cannot be read.
func (l *Loader) Load(ctx context.Context, cfg *contract.Config, logger *contract.Logger) ([]schema.Document, *contract.ProcessingResult, error) {
	paths, err := discoverFiles(ctx, cfg.InputDir, cfg.IgnorePatterns)
	if err != nil {
		return nil, nil, err
	}

	result := &contract.ProcessingResult{}
	result.FilesSkipped = paths.skipped
	logger.Verbosef("Found %d JSON files in %s (%d ignored)", len(paths.kept), cfg.InputDir, paths.skipped)

	var docs []schema.Document
	var sources []schema.SourceFileInfo
	for _, path := range paths.kept {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		name := filepath.Base(path)
		info := schema.SourceFileInfo{Name: name, Path: path, Family: schema.FamilyUnknown}

		doc, err := parseFile(path)
		if err != nil {
			logger.Warnf("skipping %s: %v", name, err)
			result.AddError(name, err)
			info.Error = err.Error()
			sources = append(sources, info)
			continue
		}

		result.FilesProcessed++
		info.Parsed = true
		info.Family = doc.Family
		info.Empty = doc.Empty()
		info.Records = countRecords(doc)
		result.TotalRecords += info.Records
		sources = append(sources, info)

		if info.Empty {
			logger.Verbosef("%s parsed but carries no records", name)
		}
		logger.Debugf("%s detected as %s family with %d records", name, doc.Family, info.Records)
		docs = append(docs, *doc)
	}

	result.Sources = sources
	return docs, result, nil
}

type discovered struct {
	kept    []string
	skipped int
}

// discoverFiles walks dir and returns JSON file paths in lexical
// order, counting files dropped by the ignore patterns.
func discoverFiles(ctx context.Context, dir string, patterns []string) (*discovered, error) {
	out := &discovered{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if d.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}
		rel, rerr := filepath.Rel(dir, path)
		if rerr != nil {
			rel = path
		}
		if contract.ShouldIgnore(rel, patterns) {
			out.skipped++
			return nil
		}
		out.kept = append(out.kept, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	return out, nil
}

// parseFile reads one document and decodes it as the detected family.
func parseFile(path string) (*schema.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	doc := &schema.Document{
		Name:   filepath.Base(path),
		Path:   path,
		Family: DetectFamily(top),
	}
	switch doc.Family {
	case schema.FamilyFlat:
		flat := &schema.FlatDocument{}
		if err := json.Unmarshal(data, flat); err != nil {
			return nil, fmt.Errorf("decode flat document: %w", err)
		}
		doc.Flat = flat
	case schema.FamilyAnalytics:
		analytics := &schema.AnalyticsDocument{}
		if err := json.Unmarshal(data, analytics); err != nil {
			return nil, fmt.Errorf("decode analytics document: %w", err)
		}
		doc.Analytics = analytics
	}
	return doc, nil
}

// DetectFamily classifies a document by its top-level keys. The
// analytics block wins when both shapes somehow appear; a lone summary
// is treated as a flat document with everything else empty.
func DetectFamily(top map[string]json.RawMessage) schema.DocumentFamily {
	if _, ok := top["analytics"]; ok {
		return schema.FamilyAnalytics
	}
	for _, key := range []string{"commits", "groupedByRepository", "groupedByPullRequest"} {
		if _, ok := top[key]; ok {
			return schema.FamilyFlat
		}
	}
	if _, ok := top["metadata"]; ok {
		return schema.FamilyAnalytics
	}
	if _, ok := top["summary"]; ok {
		return schema.FamilyFlat
	}
	return schema.FamilyUnknown
}

// countRecords tallies the usable records a document contributes.
func countRecords(doc *schema.Document) int {
	switch doc.Family {
	case schema.FamilyFlat:
		if doc.Flat == nil {
			return 0
		}
		return len(doc.Flat.Commits) + len(doc.Flat.GroupedByPullRequest)
	case schema.FamilyAnalytics:
		if doc.Analytics == nil {
			return 0
		}
		n := 0
		if cc := doc.Analytics.Analytics.CodeChurn; cc != nil {
			n += len(cc.Details)
		}
		if pt := doc.Analytics.Analytics.PRThroughput; pt != nil {
			n += len(pt.Details)
		}
		return n
	}
	return 0
}
