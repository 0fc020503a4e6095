package model

// BackupDatabase is the full relational state captured by a snapshot: every
// row of the three tables, columns mirrored verbatim.
type BackupDatabase struct {
	Accounts     []Account     `json:"Accounts"`
	Categories   []Category    `json:"Categories"`
	Transactions []Transaction `json:"Transactions"`
}

// BackupArtifact is the serialized form of an entire ledger: the relational
// state plus the flat string-to-string settings map.
type BackupArtifact struct {
	Database *BackupDatabase   `json:"database"`
	Settings map[string]string `json:"settings"`
}
