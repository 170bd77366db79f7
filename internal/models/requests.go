package models

// Row is a single generated record as returned by the backend
type Row = map[string]any

// GenerateRequest is the body of POST /generate
type GenerateRequest struct {
	Columns       []ColumnSpec `json:"columns"`
	Rows          int          `json:"rows"`
	Model         string       `json:"model"`
	ModelProvider string       `json:"model_provider"`
	BatchSize     int          `json:"batch_size"`
	Parallel      bool         `json:"parallel"`
}

// AppendRequest is the body of POST /append_data
type AppendRequest struct {
	FileID        string `json:"file_id"`
	Rows          int    `json:"rows"`
	Model         string `json:"model"`
	ModelProvider string `json:"model_provider"`
	BatchSize     int    `json:"batch_size"`
	Parallel      bool   `json:"parallel"`
}

// DataResult is the shape of GET /data/{task_id}
type DataResult struct {
	Data []Row `json:"data"`
}

// CSVResult is the shape of POST /convert_to_csv/{task_id}
type CSVResult struct {
	CSVFile string `json:"csv_file"`
}

// UploadResult is the shape of POST /upload_csv
type UploadResult struct {
	FileID     string       `json:"file_id"`
	Filename   string       `json:"filename"`
	ColumnInfo []ColumnSpec `json:"column_info"`
	RowCount   int          `json:"row_count"`
}

// AppendedContent is the shape of GET /download_appended/{file_id}
type AppendedContent struct {
	Content string `json:"content"`
}
