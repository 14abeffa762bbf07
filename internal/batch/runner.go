package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"fleet-rental-pricing/internal/domain"
	"fleet-rental-pricing/internal/logger"
	"fleet-rental-pricing/internal/report"
	"fleet-rental-pricing/internal/service"
)

// Rejection is one input record left out of the batch.
type Rejection struct {
	Kind  string
	Index int
	Err   error
}

func (r Rejection) Error() string {
	return fmt.Sprintf("%s #%d: %v", r.Kind, r.Index, r.Err)
}

func (r Rejection) Unwrap() error { return r.Err }

// Result summarizes a batch run.
type Result struct {
	RunID    string
	Cars     int
	Rentals  int
	Modified int
	Issued   int
	Rejected []Rejection
}

// Runner loads a Document into a RentalService. Record failures are
// collected and the batch carries on with the remaining records.
type Runner struct {
	svc service.RentalService
}

func NewRunner(svc service.RentalService) *Runner {
	return &Runner{svc: svc}
}

// Run loads the cars, prices the rentals, settles the initial payments and
// then applies the modifications in input order.
func (r *Runner) Run(ctx context.Context, doc *Document) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	log := logger.WithRun(res.RunID)
	log.Info("Batch started", "cars", len(doc.Cars), "rentals", len(doc.Rentals), "modifications", len(doc.Modifications))

	for i, req := range doc.Cars {
		if _, err := r.svc.AddCar(ctx, req); err != nil {
			res.reject(log, "car", i, err)
			continue
		}
		res.Cars++
	}

	for i, req := range doc.Rentals {
		if _, err := r.svc.CreateRental(ctx, req); err != nil {
			res.reject(log, "rental", i, err)
			continue
		}
		res.Rentals++
	}

	issued, err := r.svc.IssueAllPayments(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to issue payments: %w", err)
	}
	res.Issued = issued

	for i, adj := range doc.Modifications {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if _, err := r.svc.ModifyRental(ctx, adj); err != nil {
			res.reject(log, "rental_modification", i, err)
			continue
		}
		res.Modified++
	}

	log.Info("Batch completed",
		"cars", res.Cars, "rentals", res.Rentals, "modified", res.Modified,
		"issued", res.Issued, "rejected", len(res.Rejected))
	return res, nil
}

func (res *Result) reject(log *slog.Logger, kind string, index int, err error) {
	res.Rejected = append(res.Rejected, Rejection{Kind: kind, Index: index, Err: err})
	log.Warn("Record rejected", "kind", kind, "index", index, "error", err)
}

// BuildReport renders the stored rentals in the given style. Rentals that
// cannot be rendered are returned as errors next to the report.
func (r *Runner) BuildReport(ctx context.Context, style string) (*report.Report, []error, error) {
	var (
		rep  *report.Report
		errs []error
	)
	err := r.svc.ReadRentals(ctx, func(rentals []*domain.Rental) error {
		rep, errs = report.Build(rentals, style)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	for _, e := range errs {
		logger.RecordRejected("report", e, "style", rep.Style)
	}
	return rep, errs, nil
}

// WriteReport renders the stored rentals in the given style as indented JSON.
func (r *Runner) WriteReport(ctx context.Context, w io.Writer, style string) (*report.Report, error) {
	rep, _, err := r.BuildReport(ctx, style)
	if err != nil {
		return nil, err
	}
	return rep, rep.Write(w)
}

// WriteReportFile writes the JSON report to path.
func (r *Runner) WriteReportFile(ctx context.Context, path, style string) (*report.Report, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}
	rep, err := r.WriteReport(ctx, f, style)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = cerr
	}
	return rep, err
}
