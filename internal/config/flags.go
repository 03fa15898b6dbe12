package config

import "flag"

// parses command-line flags for the ingester CLI
func ParseIngesterFlags(args []string) (Flags, error) {
	fs := flag.NewFlagSet("ingester", flag.ContinueOnError)

	workspace := fs.String("workspace", "", "workspace ID to ingest into")
	source := fs.String("source", "", "data source ID to ingest from")
	limit := fs.Int("limit", 0, "max files per run (0 uses the configured default)")

	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}

	return Flags{
		WorkspaceID:  *workspace,
		DataSourceID: *source,
		Limit:        *limit,
	}, nil
}
