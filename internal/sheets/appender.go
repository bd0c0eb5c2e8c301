// Package sheets is the boundary to the spreadsheet backend. The append job
// depends only on the Appender interface; the concrete implementation posts
// to a configured webhook endpoint.
package sheets

import "context"

// Appender appends rows to a spreadsheet range in a single batch call.
type Appender interface {
	Append(ctx context.Context, values [][]string) error
}
