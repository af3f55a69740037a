package markup

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/kinlink/doctree"
	"github.com/teranos/kinlink/errors"
	"github.com/teranos/kinlink/logger"
	"github.com/teranos/kinlink/rec"
	"github.com/teranos/kinlink/rec/match"
	"github.com/teranos/kinlink/rec/types"
	"github.com/teranos/kinlink/sym"
)

// DefaultMarker starts the comment holding a document's statements.
const DefaultMarker = "[-tfp-]"

// StatementHeader starts every stored reference statement.
const StatementHeader = "<!-- HTML -->\n"

// RecordStore is the part of the Record Store the builder writes to.
type RecordStore interface {
	rec.ReferenceStore
	rec.PersonStore
	rec.ValueStore
	rec.VocabularyStore
	rec.EventaStore
}

// EventLinker finds or creates the canonical event for an eventa.
type EventLinker interface {
	Link(ctx context.Context, eventaID int64) (*match.Result, error)
}

// Transactor opens named savepoints on the enclosing transaction.
type Transactor interface {
	Savepoint(ctx context.Context, name string) error
	Release(ctx context.Context, name string) error
	RollbackTo(ctx context.Context, name string) error
}

// Options tune a Processor.
type Options struct {
	// Marker prefixes the comment holding the statements (DefaultMarker if empty).
	Marker string
	// TopMenuID is the id of a div that is navigation, not reference text.
	TopMenuID string
	// ExplicitLinkOnly leaves eventas without an EE statement unlinked.
	// By default they are matched once every statement has been read.
	ExplicitLinkOnly bool
}

// Processor turns annotated documents into records.
type Processor struct {
	store  RecordStore
	linker EventLinker
	tx     Transactor
	opts   Options
	logger *zap.SugaredLogger
}

func NewProcessor(store RecordStore, linker EventLinker, tx Transactor, opts Options, log *zap.SugaredLogger) *Processor {
	if opts.Marker == "" {
		opts.Marker = DefaultMarker
	}
	if opts.TopMenuID == "" {
		opts.TopMenuID = "topmenu"
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Processor{store: store, linker: linker, tx: tx, opts: opts, logger: log}
}

// ProcessAnnotatedDocument builds the records for one document inside a
// savepoint. A document without a body is rolled back and reported with
// OK false. Storage failures roll back the savepoint and are returned.
func (p *Processor) ProcessAnnotatedDocument(ctx context.Context, refID int64, tree *doctree.Tree) (report *Report, err error) {
	start := time.Now()
	savepoint := "ref_" + strconv.FormatInt(refID, 10)
	if refID < 0 {
		savepoint = "ref_n" + strconv.FormatInt(-refID, 10)
	}
	if err := p.tx.Savepoint(ctx, savepoint); err != nil {
		return nil, err
	}
	defer func() {
		if err == nil && report.OK {
			err = p.tx.Release(ctx, savepoint)
			return
		}
		if rbErr := p.tx.RollbackTo(ctx, savepoint); rbErr != nil {
			if err == nil {
				err = rbErr
			} else {
				p.logger.Errorw("Rollback failed", logger.FieldRefID, refID, logger.FieldError, rbErr, logger.FieldSymbol, sym.Doc)
			}
		}
	}()

	if err := p.store.EnsureReference(ctx, refID); err != nil {
		return nil, err
	}

	report = &Report{RefID: refID}
	body := tree.FindElement(tree.Root, "body")
	if body == doctree.None {
		report.Outcome = OutcomeNoBody
		report.Reason = errors.ErrMissingBody.Error()
		p.logger.Infow("Document has no body, rolled back",
			logger.FieldRefID, refID, logger.FieldOutcome, report.Outcome, logger.FieldSymbol, sym.Doc)
		return report, nil
	}

	existing, err := p.store.ListReferenceEntities(ctx, refID)
	if err != nil {
		return nil, err
	}
	pc := &parseContext{refID: refID, syms: NewLocalIDs(), seq: len(existing), linked: make(map[int64]bool)}

	data, _ := tree.FirstComment(tree.Root, p.opts.Marker)
	for i, stmt := range Tokenize(data) {
		res, err := p.apply(ctx, pc, i, stmt)
		if err != nil {
			return nil, errors.Wrapf(err, "reference %d statement %d %q", refID, i, stmt)
		}
		report.Statements = append(report.Statements, res)
	}

	if !p.opts.ExplicitLinkOnly {
		if report.AutoLinked, err = p.linkRemaining(ctx, pc); err != nil {
			return nil, errors.Wrapf(err, "link eventas of reference %d", refID)
		}
	}
	if report.Families, err = p.createFamilies(ctx, pc); err != nil {
		return nil, errors.Wrapf(err, "families for reference %d", refID)
	}

	if err := p.saveReference(ctx, pc, tree, body, report); err != nil {
		return nil, err
	}

	report.OK = true
	report.Outcome = OutcomeOK
	p.logger.Infow("Document processed",
		logger.FieldRefID, refID,
		logger.FieldOutcome, report.Outcome,
		"statements", len(report.Statements),
		"dropped", report.Count(StatusDropped),
		"links", report.Links,
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
		logger.FieldSymbol, sym.Doc,
	)
	return report, nil
}

// apply handles one statement and registers its symbol on success.
func (p *Processor) apply(ctx context.Context, pc *parseContext, index int, stmt string) (StatementResult, error) {
	res := StatementResult{Index: index}
	st, ok := ParseStatement(stmt)
	if !ok {
		res.Status = StatusIgnored
		return res, nil
	}
	res.Local, res.Kind = st.Local, st.Kind
	if st.Kind == KindUnknown {
		res.Status = StatusSkipped
		res.Reason = "unknown statement tag"
		p.logger.Debugw("Skipped statement", logger.FieldLocal, st.Local, logger.FieldStatement, stmt, logger.FieldSymbol, sym.Doc)
		return res, nil
	}

	id, err := p.build(ctx, pc, st)
	var d dropped
	switch {
	case errors.As(err, &d):
		res.Status, res.Reason = StatusDropped, d.reason
		p.logger.Debugw("Dropped statement",
			logger.FieldLocal, st.Local, logger.FieldKind, st.Kind.String(), "reason", d.reason, logger.FieldSymbol, sym.Doc)
		return res, nil
	case err != nil:
		return res, err
	case id == 0:
		res.Status, res.Reason = StatusDropped, "nothing created"
		return res, nil
	}

	pc.syms.Register(st.Local, st.Kind, id)
	res.ID, res.Status = id, StatusCreated
	p.logger.Debugw("Statement asserted",
		logger.FieldLocal, st.Local, logger.FieldKind, st.Kind.String(), "id", id, logger.FieldSymbol, sym.AS)
	return res, nil
}

// saveReference rewrites the reference text's anchors and stores the
// title and markup. The reference text is the first div of the body that
// is not the top menu, or the whole body.
func (p *Processor) saveReference(ctx context.Context, pc *parseContext, tree *doctree.Tree, body doctree.NodeID, report *Report) error {
	if h1 := tree.FindElement(body, "h1"); h1 != doctree.None {
		report.Title = tree.Text(h1)
	}

	text := body
	for _, div := range tree.ChildElements(body, "div") {
		if id, _ := tree.Attr(div, "id"); id != p.opts.TopMenuID {
			text = div
			break
		}
	}

	links, err := RewriteLinks(tree, text, pc.syms)
	if err != nil {
		return errors.Wrapf(err, "rewrite links of reference %d", pc.refID)
	}
	report.Links = links

	markup, err := tree.RenderString(text)
	if err != nil {
		return errors.Wrapf(err, "render reference %d", pc.refID)
	}
	return p.store.SaveReference(ctx, &types.Reference{
		ID:        pc.refID,
		Title:     report.Title,
		Statement: StatementHeader + markup,
	})
}
