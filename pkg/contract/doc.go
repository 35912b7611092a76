// Package contract describes the collector endpoint as an OpenAPI 3 document
// built with kin-openapi, and checks existing collector documents against the
// columns a questionnaire shape would send.
package contract
