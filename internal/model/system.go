package model

// VersionInfo contains version information for the application and its schema.
type VersionInfo struct {
	AppVersion       string  `json:"app_version"`
	DbVersion        string  `json:"db_version"`
	LatestDbVersion  string  `json:"latest_db_version"`
	MigrationNeeded  bool    `json:"migration_needed"`
	MigrationMessage *string `json:"migration_message,omitempty"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int    `json:"expiresIn"` // seconds
}
