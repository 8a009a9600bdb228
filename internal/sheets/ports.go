package sheets

import (
	"context"

	"finanzas/internal/core"
)

// ReportWriter publishes a monthly report to an outbound destination.
type ReportWriter interface {
	WriteReport(ctx context.Context, b core.KPIBundle) error
}
