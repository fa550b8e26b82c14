package export

// Dataset defines tabular export content shared by exporters.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}
