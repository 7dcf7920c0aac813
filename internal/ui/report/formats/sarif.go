// # internal/ui/report/formats/sarif.go
package formats

import (
	"ccheck/internal/engine/report"
	"ccheck/internal/engine/rules"
	"ccheck/internal/shared/version"
	"encoding/json"
	"path/filepath"

	"github.com/google/uuid"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"
)

// sarifRuleMeta is the SARIF identity of a built-in rule.
type sarifRuleMeta struct {
	code        string
	name        string
	description string
}

var sarifRules = map[rules.ID]sarifRuleMeta{
	rules.IDSingleCharName: {
		code:        "CCHK001",
		name:        "SingleCharacterName",
		description: "A variable, parameter or function has a one-character name.",
	},
	rules.IDCapitalizedLocal: {
		code:        "CCHK002",
		name:        "CapitalizedNonGlobal",
		description: "A variable without external linkage starts with an upper-case letter.",
	},
	rules.IDUncheckedArgv: {
		code:        "CCHK003",
		name:        "ArgvBeforeArgcCheck",
		description: "argv is read before argc has been checked.",
	},
	rules.IDMagicNumber: {
		code:        "CCHK004",
		name:        "MagicNumber",
		description: "An integer literal other than 0, 1 or 2 appears in code.",
	},
	rules.IDUnsafeFunction: {
		code:        "CCHK005",
		name:        "UnsafeFunction",
		description: "A call to a function on the unsafe deny-list.",
	},
}

// newRunGUID is swapped in tests.
var newRunGUID = func() string { return uuid.NewString() }

// sarifReport is the top-level SARIF document.
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool              `json:"tool"`
	AutomationDetails sarifAutomationDetails `json:"automationDetails"`
	Results           []sarifResult          `json:"results"`
}

type sarifAutomationDetails struct {
	GUID string `json:"guid"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine   int           `json:"startLine,omitempty"`
	StartColumn int           `json:"startColumn,omitempty"`
	Snippet     *sarifMessage `json:"snippet,omitempty"`
}

// GenerateSARIF builds a SARIF v2.1.0 document from a report.
// All file URIs are made relative to projectRoot; absolute paths are never
// included so that reports are safe to share.
func GenerateSARIF(projectRoot string, rep report.Report) ([]byte, error) {
	driverRules := make([]sarifRule, 0, len(rep.Results))
	results := make([]sarifResult, 0, rep.Total())

	for _, res := range rep.Results {
		if len(res.Diagnostics) == 0 {
			continue
		}
		code := sarifRuleCode(res.Rule)
		driverRules = append(driverRules, buildSARIFRule(res))

		for _, d := range res.Diagnostics {
			result := sarifResult{
				RuleID:  code,
				Level:   severityToLevel(d.Severity),
				Message: sarifMessage{Text: d.Message},
			}
			if d.Location.HasFile() {
				loc := sarifLocation{
					PhysicalLocation: sarifPhysicalLocation{
						ArtifactLocation: sarifArtifactLocation{
							URI:       relativeURI(projectRoot, d.Location.File),
							URIBaseID: "%SRCROOT%",
						},
					},
				}
				if d.Location.Line > 0 {
					loc.PhysicalLocation.Region = &sarifRegion{
						StartLine:   d.Location.Line,
						StartColumn: d.Location.Column,
					}
					if d.Snippet != "" {
						loc.PhysicalLocation.Region.Snippet = &sarifMessage{Text: d.Snippet}
					}
				}
				result.Locations = []sarifLocation{loc}
			}
			results = append(results, result)
		}
	}

	doc := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    "ccheck",
						Version: version.Version,
						Rules:   driverRules,
					},
				},
				AutomationDetails: sarifAutomationDetails{GUID: newRunGUID()},
				Results:           results,
			},
		},
	}

	return json.MarshalIndent(doc, "", "  ")
}

func buildSARIFRule(res rules.RuleResult) sarifRule {
	meta, ok := sarifRules[res.Rule]
	if !ok {
		meta = sarifRuleMeta{code: string(res.Rule), name: string(res.Rule), description: res.Title}
	}
	return sarifRule{
		ID:               meta.code,
		Name:             meta.name,
		ShortDescription: sarifMessage{Text: meta.description},
		DefaultConfig:    sarifRuleDefaultConfig{Level: "warning"},
	}
}

func sarifRuleCode(id rules.ID) string {
	if meta, ok := sarifRules[id]; ok {
		return meta.code
	}
	return string(id)
}

// relativeURI converts a file path to a forward-slash URI relative to
// projectRoot. Relative paths are taken from the working directory first, since
// the project root may be one of its ancestors. With an empty projectRoot the
// path (with forward slashes) is returned.
func relativeURI(projectRoot, filePath string) string {
	if projectRoot != "" {
		abs, err := filepath.Abs(filePath)
		if err == nil {
			if rel, err := filepath.Rel(projectRoot, abs); err == nil {
				filePath = rel
			}
		}
	}
	// SARIF URIs use forward slashes.
	return filepath.ToSlash(filePath)
}

func severityToLevel(severity rules.Severity) string {
	switch severity {
	case rules.SeverityError:
		return "error"
	case rules.SeverityNote:
		return "note"
	default:
		return "warning"
	}
}
