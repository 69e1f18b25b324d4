package cliconfig

import (
	"fmt"
	"strconv"
)

// Entry is one effective setting and where it came from.
type Entry struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Entries lists the effective settings in a stable order. The API key is
// masked.
func (c *CLIConfig) Entries() []Entry {
	apiKey := ""
	if c.APIKey != "" {
		apiKey = "********"
	}

	values := []struct{ key, value string }{
		{"backend", c.Backend},
		{"collection", c.Collection},
		{"dataFile", c.DataFile},
		{"dbUrl", c.DBURL},
		{"apiKey", apiKey},
		{"apiKeyFile", c.APIKeyFile},
		{"timeout", strconv.Itoa(c.Timeout)},
		{"fieldMap", fmt.Sprintf("name=%s age=%s", c.FieldMap.Name, c.FieldMap.Age)},
		{"seed", strconv.Itoa(len(c.Seed)) + " documents"},
		{"listen", c.Listen},
		{"embeddedDb", strconv.FormatBool(c.EmbeddedDB)},
		{"wsOriginCheck", strconv.FormatBool(c.WSOriginCheck)},
		{"logLevel", c.LogLevel},
		{"logFormat", c.LogFormat},
		{"json", strconv.FormatBool(c.JSON)},
	}

	entries := make([]Entry, 0, len(values))
	for _, v := range values {
		source := c.Sources[v.key]
		if source == "" {
			source = SourceDefault
		}
		entries = append(entries, Entry{Key: v.key, Value: v.value, Source: source})
	}
	return entries
}

// SetFromFlag records a value supplied on the command line.
func (c *CLIConfig) SetFromFlag(key string) {
	if c.Sources == nil {
		c.Sources = make(map[string]string)
	}
	c.Sources[key] = SourceFlag
}
