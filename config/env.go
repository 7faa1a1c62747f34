package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Environment contains the imported environment variables.
type Environment struct {
	// Debug vs deploy logging
	Mode string `default:"dev"`
	// Flow API base URL
	APIBase string `default:"https://api.flow.bio" split_words:"true"`
	// Flow web app base URL, used to build execution links
	AppBase string `default:"https://app.flow.bio" split_words:"true"`
	// Request timeout for metadata reads (login, sample pages, execution details)
	RequestTimeoutSec int `default:"30" split_words:"true"`
	// Request timeout for run submissions
	SubmitTimeoutSec int `default:"60" split_words:"true"`
	// Page size used when walking a project's sample listing
	SamplePageSize int `default:"100" split_words:"true"`
	// Attempts per sample page before the retrieval is abandoned
	PageAttempts int `default:"3" split_words:"true"`
	// Initial delay between retry attempts, doubled on each failure
	RetryDelayMs int `default:"1000" split_words:"true"`
	// Maximum number of planned submissions held in the batch queue
	BatchQueueSize int `default:"100" split_words:"true"`
	// Persist the planned batch queue so an interrupted run can be resumed
	JournalQueue bool `default:"false" split_words:"true"`
	// Directory to store the journal in when the persisted queue is used
	JournalDir string `default:"./" split_words:"true"`
	// Name of the journal when the persisted queue is used
	JournalName string `default:"batch_journal" split_words:"true"`
	// Address for the optional run status endpoint; empty disables it
	StatusAddr string `default:"" split_words:"true"`
	// Chunk size in bytes for sample uploads
	UploadChunkSizeBytes int `default:"1000000" split_words:"true"`
}

func (e Environment) String() string {
	settings, err := json.MarshalIndent(e, "", "    ")
	if err != nil {
		return fmt.Errorf("Failed to marshal env: %v", err).Error()
	}
	return fmt.Sprintf("Environment Settings:\n%s\n", string(settings))
}

// Load imports the environment variables and returns them in an Environment.
func Load(envFile string) (*Environment, error) {
	testEnv := os.Getenv("FLOW_MODE")
	// if no env var in existing environment, load the .env file, otherwise
	// (in production) just check the existing host environment
	if "" == testEnv {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, errors.Wrapf(err, "Error loading %s file", envFile)
			}
		}
	}

	var env Environment
	err := envconfig.Process("flow", &env)
	if err != nil {
		return nil, errors.Wrap(err, "Error processing environment config")
	}
	return &env, err
}
