package cliconfig

// MergeConfig merges source config into target, updating sources tracking.
// Only non-zero values from source are applied.
func MergeConfig(target, source *CLIConfig, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}

	mergeString := func(key, src string, dst *string) {
		if src != "" {
			*dst = src
			target.Sources[key] = sourceType
		}
	}

	mergeString("backend", source.Backend, &target.Backend)
	mergeString("collection", source.Collection, &target.Collection)
	mergeString("dataFile", source.DataFile, &target.DataFile)
	mergeString("dbUrl", source.DBURL, &target.DBURL)
	mergeString("apiKey", source.APIKey, &target.APIKey)
	mergeString("apiKeyFile", source.APIKeyFile, &target.APIKeyFile)
	mergeString("listen", source.Listen, &target.Listen)
	mergeString("logLevel", source.LogLevel, &target.LogLevel)
	mergeString("logFormat", source.LogFormat, &target.LogFormat)

	if source.Timeout != 0 {
		target.Timeout = source.Timeout
		target.Sources["timeout"] = sourceType
	}

	// Field map entries merge individually so a file may override one path.
	if source.FieldMap.Name != "" {
		target.FieldMap.Name = source.FieldMap.Name
		target.Sources["fieldMap"] = sourceType
	}
	if source.FieldMap.Age != "" {
		target.FieldMap.Age = source.FieldMap.Age
		target.Sources["fieldMap"] = sourceType
	}

	if len(source.Seed) > 0 {
		target.Seed = source.Seed
		target.Sources["seed"] = sourceType
	}

	if boolIsSet(source, "embeddedDb") {
		target.EmbeddedDB = source.EmbeddedDB
		target.Sources["embeddedDb"] = sourceType
	}
	if boolIsSet(source, "wsOriginCheck") {
		target.WSOriginCheck = source.WSOriginCheck
		target.Sources["wsOriginCheck"] = sourceType
	}
	if boolIsSet(source, "json") {
		target.JSON = source.JSON
		target.Sources["json"] = sourceType
	}
}

// boolIsSet reports whether a boolean field identified by its YAML key was
// explicitly set in the source config. Without SetFields (programmatic
// configs) only true counts as set.
func boolIsSet(cfg *CLIConfig, yamlKey string) bool {
	if cfg.SetFields != nil {
		return cfg.SetFields[yamlKey]
	}
	switch yamlKey {
	case "embeddedDb":
		return cfg.EmbeddedDB
	case "wsOriginCheck":
		return cfg.WSOriginCheck
	case "json":
		return cfg.JSON
	}
	return false
}
