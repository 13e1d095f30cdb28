package config

import (
	"os"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestInitConfig_Defaults(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flagSet.Int("max-retry", 3, "")
	flagSet.Int("page-size", 100, "")
	flagSet.Int("workers", 1, "")
	BindFlags(flagSet)

	err := InitConfig()
	if err != nil {
		t.Fatalf("Cannot init config %v", err)
	}
	config := Get()

	if config.MaxRetry != 3 {
		t.Fatalf("MaxRetry default isn't set to 3 but %d", config.MaxRetry)
	}

	if config.PageSize != 100 {
		t.Fatalf("PageSize default isn't set to 100 but %d", config.PageSize)
	}
}

func TestEnsureJobPath(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg := &Config{}
	if err := cfg.EnsureJobPath(); err != nil {
		t.Fatalf("Cannot ensure job path: %v", err)
	}

	if cfg.Job != "default" {
		t.Fatalf("Expected default job name, got %s", cfg.Job)
	}

	if cfg.JobPath != "jobs/default" {
		t.Fatalf("Expected jobs/default, got %s", cfg.JobPath)
	}
}

func TestBindFlagsOverride(t *testing.T) {
	flagSet := pflag.NewFlagSet("override", pflag.ContinueOnError)
	flagSet.String("job", "", "")
	BindFlags(flagSet)

	if err := flagSet.Parse([]string{"--job", "sao-paulo"}); err != nil {
		t.Fatalf("Cannot parse flags: %v", err)
	}

	if viper.GetString("job") != "sao-paulo" {
		t.Fatalf("Expected job sao-paulo, got %s", viper.GetString("job"))
	}
}
