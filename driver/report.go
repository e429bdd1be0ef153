package driver

// Report accumulates migration statistics over the course of a Run,
// consumed afterward by the migreport tool. Grounded on the
// lib/tools/reporter shape (a plain accumulator struct populated during
// a pass over game data, not its go-ods spreadsheet output). The engine
// is strictly sequential, so Report needs no synchronization.
type Report struct {
	RegionsProcessed int  `json:"regionsProcessed"`
	ChunksProcessed  int  `json:"chunksProcessed"`
	ChunksFailed     int  `json:"chunksFailed"`
	PlayersProcessed int  `json:"playersProcessed"`
	PlayersSkipped   int  `json:"playersSkipped"`
	LevelDatMigrated bool `json:"levelDatMigrated"`

	// Errors records one message per failed chunk. Run still aborts on
	// the first fatal error (no partial-world output per spec), but a
	// Report built incrementally lets a caller inspect what had already
	// been processed before the abort.
	Errors []string `json:"errors,omitempty"`
}

// NewReport returns an empty Report.
func NewReport() *Report { return &Report{} }

func (r *Report) recordRegion() {
	r.RegionsProcessed++
}

func (r *Report) recordChunk(err error) {
	if err != nil {
		r.ChunksFailed++
		r.Errors = append(r.Errors, err.Error())
		return
	}
	r.ChunksProcessed++
}

func (r *Report) recordPlayer(skipped bool) {
	if skipped {
		r.PlayersSkipped++
		return
	}
	r.PlayersProcessed++
}

func (r *Report) recordLevelDat() {
	r.LevelDatMigrated = true
}
