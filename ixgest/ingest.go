// Package ixgest ingests a corpus of annotated reference documents into
// the record store. One run is one transaction: every document gets its
// own savepoint inside it, and any storage failure rolls the whole run
// back.
package ixgest

import (
	"context"
	"database/sql"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
	"go.uber.org/zap"

	"github.com/teranos/kinlink/db"
	"github.com/teranos/kinlink/doctree"
	"github.com/teranos/kinlink/errors"
	"github.com/teranos/kinlink/logger"
	"github.com/teranos/kinlink/markup"
	"github.com/teranos/kinlink/rec/match"
	"github.com/teranos/kinlink/rec/storage"
	"github.com/teranos/kinlink/rec/types"
	"github.com/teranos/kinlink/sym"
)

// OutcomeUnchanged marks a document skipped because its digest matches
// the last successful ingest.
const OutcomeUnchanged = "unchanged"

// Options configure a run.
type Options struct {
	Markup markup.Options
	// Extensions of the files treated as documents.
	Extensions []string
	// GCRoles deletes orphaned ad hoc roles at the end of the run.
	GCRoles bool
	// SkipUnchanged skips documents already ingested with the same digest.
	SkipUnchanged bool
	// DryRun processes everything and rolls the transaction back.
	DryRun bool
}

// RefDocIxProcessor ingests annotated reference documents.
type RefDocIxProcessor struct {
	db      *sql.DB
	opts    Options
	emitter ProgressEmitter
	logger  *zap.SugaredLogger
}

// ProcessingResult describes one run.
type ProcessingResult struct {
	RunID        string           `json:"run_id" yaml:"run_id"`
	Root         string           `json:"root" yaml:"root"`
	DryRun       bool             `json:"dry_run" yaml:"dry_run"`
	Processed    int              `json:"processed" yaml:"processed"`
	Aborted      int              `json:"aborted" yaml:"aborted"`
	Unchanged    int              `json:"unchanged" yaml:"unchanged"`
	RolesDeleted int64            `json:"roles_deleted" yaml:"roles_deleted"`
	Documents    []DocumentResult `json:"documents,omitempty" yaml:"documents,omitempty"`
	Success      bool             `json:"success" yaml:"success"`
	Message      string           `json:"message" yaml:"message"`
	StartTime    time.Time        `json:"start_time" yaml:"start_time"`
	EndTime      time.Time        `json:"end_time" yaml:"end_time"`
}

// DocumentResult describes one document of a run.
type DocumentResult struct {
	RefID      int64          `json:"ref_id" yaml:"ref_id"`
	Path       string         `json:"path" yaml:"path"`
	Digest     string         `json:"digest" yaml:"digest"`
	Outcome    string         `json:"outcome" yaml:"outcome"`
	Title      string         `json:"title,omitempty" yaml:"title,omitempty"`
	Statements int            `json:"statements" yaml:"statements"`
	Created    map[string]int `json:"created,omitempty" yaml:"created,omitempty"`
	Problems   []string       `json:"problems,omitempty" yaml:"problems,omitempty"`
	Links      int            `json:"links" yaml:"links"`
	AutoLinked int            `json:"auto_linked" yaml:"auto_linked"`
}

// NewRefDocIxProcessor creates a processor over an open, migrated database.
// A nil emitter reports nothing.
func NewRefDocIxProcessor(conn *sql.DB, opts Options, emitter ProgressEmitter, log *zap.SugaredLogger) *RefDocIxProcessor {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if emitter == nil {
		emitter = nopEmitter{}
	}
	return &RefDocIxProcessor{db: conn, opts: opts, emitter: emitter, logger: log}
}

// ProcessPath ingests every reference document under root in one
// transaction. The result is returned even when the run fails.
func (p *RefDocIxProcessor) ProcessPath(ctx context.Context, root string) (*ProcessingResult, error) {
	result := &ProcessingResult{
		RunID:     uuid.NewString(),
		Root:      root,
		DryRun:    p.opts.DryRun,
		StartTime: time.Now(),
	}
	ctx = logger.WithRunID(ctx, result.RunID)
	log := logger.FromContext(ctx, p.logger)

	fail := func(err error) (*ProcessingResult, error) {
		result.EndTime = time.Now()
		result.Message = err.Error()
		p.emitter.EmitError("ingest", err)
		return result, err
	}

	docs, err := FindDocuments(root, p.opts.Extensions)
	if err != nil {
		return fail(err)
	}
	p.emitter.EmitStage("scan", pluralDocs(len(docs))+" found under "+root)

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fail(errors.Wrap(err, "begin ingest transaction"))
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Errorw("Rollback failed", logger.FieldError, rbErr, logger.FieldSymbol, sym.IX)
			}
		}
	}()

	store := storage.NewSQLStore(tx, log)
	proc := markup.NewProcessor(store, match.New(store, log), db.NewSavepoints(tx, log), p.opts.Markup, log)

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return fail(errors.Wrap(err, "ingest cancelled"))
		}
		dr, err := p.processDocument(ctx, store, proc, result.RunID, doc)
		switch {
		case db.IsConstraintViolation(err):
			return fail(errors.WithHintf(err, "RD%d refers to a record that does not exist", doc.RefID))
		case db.IsDatabaseClosed(err):
			return fail(errors.WithHint(err, "the database was closed during the run"))
		case err != nil:
			return fail(err)
		}
		switch dr.Outcome {
		case markup.OutcomeOK:
			result.Processed++
		case OutcomeUnchanged:
			result.Unchanged++
		default:
			result.Aborted++
		}
		result.Documents = append(result.Documents, *dr)
		p.emitter.EmitDocument(*dr)
		log.Infow("Document ingested",
			logger.FieldRefID, dr.RefID,
			logger.FieldOutcome, dr.Outcome,
			logger.FieldFile, dr.Path,
			logger.FieldSymbol, sym.IX)
	}

	if p.opts.GCRoles {
		if result.RolesDeleted, err = store.DeleteOrphanedRoles(ctx); err != nil {
			return fail(err)
		}
		if result.RolesDeleted > 0 {
			log.Infow("Orphaned roles deleted", logger.FieldCount, result.RolesDeleted, logger.FieldSymbol, sym.IX)
		}
	}

	if p.opts.DryRun {
		result.Message = "dry run: " + pluralDocs(len(docs)) + " processed and rolled back"
	} else {
		if err := tx.Commit(); err != nil {
			return fail(errors.Wrap(err, "commit ingest transaction"))
		}
		committed = true
		result.Message = pluralDocs(result.Processed) + " ingested"
	}
	result.Success = true
	result.EndTime = time.Now()
	p.emitter.EmitComplete(result)
	log.Infow("Ingest run finished",
		"processed", result.Processed,
		"aborted", result.Aborted,
		"unchanged", result.Unchanged,
		logger.FieldDurationMS, result.EndTime.Sub(result.StartTime).Milliseconds(),
		logger.FieldSymbol, sym.IX)
	return result, nil
}

func (p *RefDocIxProcessor) processDocument(ctx context.Context, store *storage.SQLStore, proc *markup.Processor, runID string, doc Document) (*DocumentResult, error) {
	tree, data, err := doctree.ParseFile(doc.Path)
	if err != nil {
		return nil, err
	}
	sum := blake3.Sum256(data)
	dr := &DocumentResult{RefID: doc.RefID, Path: doc.Path, Digest: hex.EncodeToString(sum[:])}

	if p.opts.SkipUnchanged {
		unchanged, err := p.unchanged(ctx, store, dr)
		if err != nil {
			return nil, err
		}
		if unchanged {
			dr.Outcome = OutcomeUnchanged
			return dr, nil
		}
	}

	report, err := proc.ProcessAnnotatedDocument(ctx, doc.RefID, tree)
	if err != nil {
		return nil, errors.Wrapf(err, "ingest %s", doc.Path)
	}
	dr.Outcome = report.Outcome
	dr.Title = report.Title
	dr.Statements = len(report.Statements)
	dr.Links = report.Links
	dr.AutoLinked = report.AutoLinked
	for kind, n := range report.Created() {
		if dr.Created == nil {
			dr.Created = make(map[string]int)
		}
		dr.Created[kind.String()] = n
	}
	for _, s := range report.Problems() {
		dr.Problems = append(dr.Problems, s.Local+": "+s.Status.String()+" ("+s.Reason+")")
	}

	entry := &types.IngestEntry{RunID: runID, RefID: doc.RefID, Path: doc.Path, Digest: dr.Digest, Outcome: dr.Outcome}
	if err := store.RecordIngest(ctx, entry); err != nil {
		return nil, err
	}
	return dr, nil
}

// unchanged reports whether the last successful ingest of the document
// had the same digest.
func (p *RefDocIxProcessor) unchanged(ctx context.Context, store *storage.SQLStore, dr *DocumentResult) (bool, error) {
	history, err := store.IngestHistory(ctx, dr.RefID)
	if err != nil {
		return false, err
	}
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Outcome == markup.OutcomeOK {
			return history[i].Digest == dr.Digest, nil
		}
	}
	return false, nil
}

func pluralDocs(n int) string {
	if n == 1 {
		return "1 document"
	}
	return strconv.Itoa(n) + " documents"
}
