package cfg

import "golang.org/x/text/language"

type Cfg struct {
	// Storage configuration
	DBPath string

	// Application configuration
	FeedsDir          string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Parsing configuration
	Locale    language.Tag
	ParseFile string // when set, parse this file and exit instead of serving

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
