package app

import (
	"strings"

	"maven-promote/internal/shared"
)

const (
	DefaultURL         = "https://repo.jenkins-ci.org"
	DefaultMetadataURL = "https://repo.jenkins-ci.org/releases/org/jenkins-ci/main/jenkins-war/maven-metadata.xml"
	DefaultSearchBase  = "/org/jenkins-ci/main"
)

// Config is the resolved connection configuration for one invocation.
type Config struct {
	URL         string
	Username    string
	Password    string
	SourceRepo  string
	TargetRepo  string
	MetadataURL string
	TimeoutSec  int
}

// ValidateForPromotion lists every setting a promotion needs that is unset.
func (c Config) ValidateForPromotion() error {
	var missing []string
	if strings.TrimSpace(c.URL) == "" {
		missing = append(missing, "MAVEN_REPOSITORY_URL")
	}
	if strings.TrimSpace(c.Username) == "" {
		missing = append(missing, "MAVEN_REPOSITORY_USERNAME")
	}
	if c.Password == "" {
		missing = append(missing, "MAVEN_REPOSITORY_PASSWORD")
	}
	if strings.TrimSpace(c.SourceRepo) == "" {
		missing = append(missing, "MAVEN_REPOSITORY_NAME")
	}
	if strings.TrimSpace(c.TargetRepo) == "" {
		missing = append(missing, "MAVEN_REPOSITORY_PRODUCTION_NAME")
	}
	if err := missingError(missing); err != nil {
		return err
	}
	if strings.TrimSpace(c.SourceRepo) == strings.TrimSpace(c.TargetRepo) {
		return shared.ConfigurationError("source and target repositories must differ")
	}
	if c.TimeoutSec < 0 {
		return shared.ConfigurationError("timeout must not be negative")
	}
	return nil
}

func (c Config) ValidateForResolution() error {
	if strings.TrimSpace(c.MetadataURL) == "" {
		return missingError([]string{"MAVEN_REPOSITORY_METADATA_URL"})
	}
	return nil
}

func (c Config) ValidateForPing() error {
	if strings.TrimSpace(c.URL) == "" {
		return missingError([]string{"MAVEN_REPOSITORY_URL"})
	}
	return nil
}

func missingError(missing []string) error {
	if len(missing) == 0 {
		return nil
	}
	return shared.ConfigurationError("missing required configuration: " + strings.Join(missing, ", "))
}
