package interfaces

import "stream-viewer/src/models"

// -----------------------------------------------------------------------------
// IChartSink is the rendering boundary for chart series.
// -----------------------------------------------------------------------------

type IChartSink interface {

	// -----------------------------------------------------------------------------

	// UpdateSeries pushes one incremental point to a named series. A later
	// update carrying a time equal to an already-rendered point overwrites
	// the visual point at that time instead of adding a new one.
	UpdateSeries(series string, point models.MCanonicalPoint)
}
