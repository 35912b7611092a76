// Package config loads tripsurvey.yaml: collector endpoint, storage driver,
// recipient routing, questionnaire tuning, report, logging and HTTP
// settings, with TRIPSURVEY_* environment overrides.
package config
