package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/devbm7/synthgen/internal/client"
	"github.com/devbm7/synthgen/internal/config"
	"github.com/devbm7/synthgen/internal/export"
	"github.com/devbm7/synthgen/internal/logger"
	"github.com/devbm7/synthgen/internal/models"
	"github.com/devbm7/synthgen/internal/poller"
	"github.com/devbm7/synthgen/internal/services"
	"github.com/devbm7/synthgen/internal/session"
	"github.com/devbm7/synthgen/internal/storage"
	"github.com/devbm7/synthgen/internal/tui"
	"github.com/devbm7/synthgen/internal/utils"
)

// app wires the configuration, the session store and the controller for
// a single command invocation
type app struct {
	cfg      *config.Config
	store    *storage.Store
	ctrl     *session.Controller
	exporter *export.Exporter
}

func newApp(cfg *config.Config, sessionToken string) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := storage.NewStore()
	if err != nil {
		return nil, err
	}

	var sess *session.Session
	if sessionToken != "" {
		sess, err = store.Load(sessionToken)
		if err != nil {
			return nil, err
		}
	} else if current, ok := store.Current(); ok {
		sess, err = store.Load(current)
		if err != nil {
			return nil, err
		}
	} else {
		sess = session.NewSession(storage.NewToken())
		if err := store.Save(sess); err != nil {
			return nil, err
		}
		if err := store.SetCurrent(sess.Token); err != nil {
			return nil, err
		}
		logger.Info("Started new session %s", sess.Token)
	}

	apiClient := client.NewAPIClient(cfg)
	ctrl := session.NewController(
		services.NewGenerationService(apiClient),
		services.NewUploadService(apiClient),
		sess,
	)

	return &app{
		cfg:      cfg,
		store:    store,
		ctrl:     ctrl,
		exporter: export.NewExporter(cfg.DataDir),
	}, nil
}

// save persists the session after a state-mutating command
func (a *app) save() {
	if err := a.store.Save(a.ctrl.Session()); err != nil {
		logger.Error("Failed to persist session: %v", err)
	}
}

// watchTask polls a workflow to a terminal state, either behind the TUI
// or as a plain logged loop
func (a *app) watchTask(workflow *session.Workflow, label string, useTUI bool) (models.TaskStatus, error) {
	p := poller.New(a.cfg.PollInterval, a.cfg.MaxPollAttempts)

	if useTUI {
		if err := logger.InitFileOnly(); err != nil {
			logger.Warn("Failed to switch logging to file: %v", err)
		}
		watch := tui.NewTaskWatch(a.ctrl, workflow, p, label)
		return watch.Run(context.Background())
	}

	return p.Wait(context.Background(), func() (models.TaskStatus, error) {
		return a.ctrl.Poll(workflow)
	}, func(attempt int, status models.TaskStatus, err error) {
		if err == nil {
			logger.Info("Poll %d: task %s is %s", attempt, workflow.TaskID, status)
		}
	})
}

// fetchAndStage fetches the completed result and stages the JSON (and
// optionally a local CSV) export
func (a *app) fetchAndStage(workflow *session.Workflow, withCSV bool) error {
	result, err := a.ctrl.FetchResult(workflow)
	if err != nil {
		return err
	}

	jsonPath, err := a.exporter.WriteJSON(workflow.TaskID, result)
	if err != nil {
		return err
	}
	fmt.Printf("JSON export: %s (%d rows)\n", jsonPath, len(result.Data))

	if withCSV {
		header := export.ColumnOrder(a.ctrl.Session().Columns, result.Data)
		csvPath, err := a.exporter.WriteCSV(workflow.TaskID, header, result)
		if err != nil {
			return err
		}
		fmt.Printf("CSV export: %s\n", csvPath)
	}

	return nil
}

func printTasks(tasks []models.TaskInfo) {
	if len(tasks) == 0 {
		fmt.Println("No tasks available")
		return
	}

	fmt.Printf("%-38s %-10s %-20s %-20s %s\n", "TASK ID", "STATUS", "CREATED", "COMPLETED", "RESULT FILE")
	for _, t := range tasks {
		fmt.Printf("%-38s %-10s %-20s %-20s %s\n", t.TaskID, t.Status, t.CreatedAt, t.CompletedAt, t.ResultFile)
	}
}

func printColumns(columns []models.ColumnSpec) {
	if len(columns) == 0 {
		fmt.Println("No columns defined")
		return
	}

	fmt.Printf("%-20s %-10s %-30s %s\n", "NAME", "TYPE", "DESCRIPTION", "CONSTRAINTS")
	for _, col := range columns {
		constraints := ""
		if len(col.Constraints) > 0 {
			parts := make([]string, 0, len(col.Constraints))
			for key, value := range col.Constraints {
				parts = append(parts, fmt.Sprintf("%s=%v", key, value))
			}
			constraints = strings.Join(parts, " ")
		}
		fmt.Printf("%-20s %-10s %-30s %s\n", col.Name, col.Type, col.Description, constraints)
	}
}

func main() {
	logger.Init()
	utils.LoadEnvironment()

	cfg := config.NewConfig()
	cfg.LoadFromEnvironment()

	var (
		sessionToken    string
		pollIntervalMS  int
		maxPollAttempts int
	)

	rootCmd := &cobra.Command{
		Use:           "synthgen",
		Short:         "A CLI client for the synthetic data generation service",
		Long:          `synthgen drives a remote synthetic data generation API: define column schemas, submit generation jobs, poll their status, and export results as JSON or CSV.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cmd.Flags().Changed("poll-interval") {
				cfg.PollInterval = time.Duration(pollIntervalMS) * time.Millisecond
			}
			if cmd.Flags().Changed("max-poll-attempts") {
				cfg.MaxPollAttempts = maxPollAttempts
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfg.BaseURL, "api-url", "u", cfg.BaseURL, "Base URL of the generation API")
	rootCmd.PersistentFlags().StringVarP(&cfg.DataDir, "data-dir", "", cfg.DataDir, "Local staging directory for exports")
	rootCmd.PersistentFlags().IntVarP(&pollIntervalMS, "poll-interval", "", int(cfg.PollInterval/time.Millisecond), "Poll interval in milliseconds")
	rootCmd.PersistentFlags().IntVarP(&maxPollAttempts, "max-poll-attempts", "", cfg.MaxPollAttempts, "Maximum poll attempts (0 = unbounded)")
	rootCmd.PersistentFlags().StringVarP(&sessionToken, "session", "s", "", "Session token to resume (default: current session)")

	// column add/list/clear
	columnCmd := &cobra.Command{
		Use:   "column",
		Short: "Manage the column schema of the current session",
	}

	var (
		colName      string
		colType      string
		colDesc      string
		colGE        float64
		colLE        float64
		colMinLength int
		colMaxLength int
	)
	columnAddCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a column to the schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, sessionToken)
			if err != nil {
				return err
			}

			dataType, err := models.ParseDataType(colType)
			if err != nil {
				return err
			}

			var constraints map[string]any
			if dataType.Numeric() {
				var ge, le *float64
				if cmd.Flags().Changed("ge") {
					ge = &colGE
				}
				if cmd.Flags().Changed("le") {
					le = &colLE
				}
				constraints = models.NumericConstraints(ge, le)
			} else if dataType == models.TypeString {
				var minLength, maxLength *int
				if cmd.Flags().Changed("min-length") {
					minLength = &colMinLength
				}
				if cmd.Flags().Changed("max-length") {
					maxLength = &colMaxLength
				}
				constraints = models.StringConstraints(minLength, maxLength)
			}

			col := models.ColumnSpec{
				Name:        colName,
				Type:        dataType,
				Description: colDesc,
				Constraints: constraints,
			}
			if err := a.ctrl.AddColumn(col); err != nil {
				return err
			}

			a.save()
			fmt.Printf("Added column %q (%s)\n", colName, colType)
			return nil
		},
	}
	columnAddCmd.Flags().StringVarP(&colName, "name", "n", "", "Column name")
	columnAddCmd.Flags().StringVarP(&colType, "type", "t", "string", fmt.Sprintf("Data type (%s)", joinTypes()))
	columnAddCmd.Flags().StringVarP(&colDesc, "description", "d", "", "Optional description to guide generation")
	columnAddCmd.Flags().Float64VarP(&colGE, "ge", "", 0, "Minimum value (numeric types)")
	columnAddCmd.Flags().Float64VarP(&colLE, "le", "", 0, "Maximum value (numeric types)")
	columnAddCmd.Flags().IntVarP(&colMinLength, "min-length", "", 0, "Minimum length (string type)")
	columnAddCmd.Flags().IntVarP(&colMaxLength, "max-length", "", 0, "Maximum length (string type)")
	_ = columnAddCmd.MarkFlagRequired("name")

	columnListCmd := &cobra.Command{
		Use:   "list",
		Short: "Show the schema of the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, sessionToken)
			if err != nil {
				return err
			}
			printColumns(a.ctrl.Session().Columns)
			return nil
		},
	}

	columnClearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Discard all columns of the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, sessionToken)
			if err != nil {
				return err
			}
			a.ctrl.ClearColumns()
			a.save()
			fmt.Println("Columns cleared")
			return nil
		},
	}

	columnCmd.AddCommand(columnAddCmd, columnListCmd, columnClearCmd)

	// generate
	var (
		genRows     int
		genModel    string
		genProvider string
		genBatch    int
		genParallel bool
		genWatch    bool
		genWait     bool
	)
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Submit a generation job for the session's schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, sessionToken)
			if err != nil {
				return err
			}

			err = a.ctrl.Submit(session.GenerateOptions{
				Rows:      genRows,
				Model:     genModel,
				Provider:  genProvider,
				BatchSize: genBatch,
				Parallel:  genParallel,
			})
			if err != nil {
				return err
			}
			a.save()

			workflow := &a.ctrl.Session().Generate
			fmt.Printf("Generation task submitted! Task ID: %s\n", workflow.TaskID)

			if !genWatch && !genWait {
				return nil
			}

			status, err := a.watchTask(workflow, "generate", genWatch)
			a.save()
			if err != nil {
				return watchError(workflow, status, err)
			}
			return reportTerminal(workflow, status)
		},
	}
	generateCmd.Flags().IntVarP(&genRows, "rows", "r", cfg.Rows, "Number of rows to generate")
	generateCmd.Flags().StringVarP(&genModel, "model", "m", cfg.Model, "LLM model")
	generateCmd.Flags().StringVarP(&genProvider, "provider", "p", cfg.Provider, "LLM provider (ollama, google)")
	generateCmd.Flags().IntVarP(&genBatch, "batch-size", "b", cfg.BatchSize, "Batch size")
	generateCmd.Flags().BoolVarP(&genParallel, "parallel", "", false, "Enable parallel processing")
	generateCmd.Flags().BoolVarP(&genWatch, "watch", "w", false, "Watch the task with a live view")
	generateCmd.Flags().BoolVarP(&genWait, "wait", "", false, "Wait for the task without the live view")

	// ping
	var pingAttempts int
	pingCmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the generation API is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}

			apiClient := client.NewAPIClient(cfg)
			if pingAttempts > 1 {
				if !apiClient.WaitForAPIReady(pingAttempts) {
					return fmt.Errorf("API at %s did not become ready after %d attempts", cfg.BaseURL, pingAttempts)
				}
			} else if err := apiClient.Ping(); err != nil {
				return fmt.Errorf("API at %s is not reachable: %w", cfg.BaseURL, err)
			}

			fmt.Printf("API at %s is ready\n", cfg.BaseURL)
			return nil
		},
	}
	pingCmd.Flags().IntVarP(&pingAttempts, "attempts", "", 1, "Retry once per second up to this many attempts")

	// tasks
	tasksCmd := &cobra.Command{
		Use:   "tasks",
		Short: "List all tasks known to the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, sessionToken)
			if err != nil {
				return err
			}
			tasks, err := a.ctrl.ListTasks()
			if err != nil {
				return err
			}
			printTasks(tasks)
			return nil
		},
	}

	// status
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Poll the session's active tasks once",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, sessionToken)
			if err != nil {
				return err
			}

			sess := a.ctrl.Session()
			polled := false
			for _, entry := range []struct {
				label    string
				workflow *session.Workflow
			}{
				{"generate", &sess.Generate},
				{"append", &sess.Append},
			} {
				if !entry.workflow.State.Active() {
					continue
				}
				polled = true
				status, err := a.ctrl.Poll(entry.workflow)
				if err != nil {
					fmt.Printf("%s task %s: error: %v\n", entry.label, entry.workflow.TaskID, err)
					continue
				}
				fmt.Printf("%s task %s: %s\n", entry.label, entry.workflow.TaskID, status)
				if entry.workflow.State == session.StateFailed {
					fmt.Printf("  failure: %s\n", entry.workflow.Failure)
				}
			}
			a.save()

			if !polled {
				fmt.Println("No active task. Submit one with 'synthgen generate'.")
			}
			return nil
		},
	}

	// cancel
	cancelCmd := &cobra.Command{
		Use:   "cancel [generate|append]",
		Short: "Cancel the session's active task",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, sessionToken)
			if err != nil {
				return err
			}

			workflow := &a.ctrl.Session().Generate
			label := "generate"
			if len(args) == 1 && args[0] == "append" {
				workflow = &a.ctrl.Session().Append
				label = "append"
			}

			taskID := workflow.TaskID
			if taskID == "" {
				return session.ErrNoActiveTask
			}

			err = a.ctrl.Cancel(workflow)
			a.save()
			if err != nil {
				// The local state is already cleared; surface the remote failure
				fmt.Printf("Task %s cleared locally; remote deletion failed: %v\n", taskID, err)
				return nil
			}
			fmt.Printf("Cancelled %s task %s\n", label, taskID)
			return nil
		},
	}

	// load
	var loadWatch bool
	loadCmd := &cobra.Command{
		Use:   "load <task-id>",
		Short: "Re-attach the session to a previously listed task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, sessionToken)
			if err != nil {
				return err
			}

			if err := a.ctrl.Load(args[0]); err != nil {
				return err
			}
			a.save()
			fmt.Printf("Loaded task %s\n", args[0])

			if !loadWatch {
				return nil
			}

			workflow := &a.ctrl.Session().Generate
			status, err := a.watchTask(workflow, "generate", true)
			a.save()
			if err != nil {
				return watchError(workflow, status, err)
			}
			return reportTerminal(workflow, status)
		},
	}
	loadCmd.Flags().BoolVarP(&loadWatch, "watch", "w", false, "Watch the task with a live view")

	// fetch
	var fetchCSV bool
	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the completed result and stage local exports",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, sessionToken)
			if err != nil {
				return err
			}

			workflow := &a.ctrl.Session().Generate
			if workflow.State.Active() && workflow.State != session.StateCompleted {
				if _, err := a.ctrl.Poll(workflow); err != nil {
					return err
				}
			}

			err = a.fetchAndStage(workflow, fetchCSV)
			a.save()
			return err
		},
	}
	fetchCmd.Flags().BoolVarP(&fetchCSV, "csv", "c", false, "Also stage a local CSV export")

	// preview
	var previewRows int
	previewCmd := &cobra.Command{
		Use:   "preview [file.csv]",
		Short: "Preview a staged CSV export",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, sessionToken)
			if err != nil {
				return err
			}

			var path string
			if len(args) == 1 {
				path = args[0]
			} else {
				workflow := &a.ctrl.Session().Generate
				if workflow.TaskID == "" {
					return session.ErrNoActiveTask
				}
				path = a.exporter.CSVPath(workflow.TaskID)
			}

			header, rows, err := export.ReadCSV(path)
			if err != nil {
				return err
			}
			if len(header) == 0 {
				fmt.Printf("%s is empty\n", path)
				return nil
			}

			total := len(rows)
			if previewRows > 0 && len(rows) > previewRows {
				rows = rows[:previewRows]
			}

			fmt.Println(strings.Join(header, " | "))
			for _, row := range rows {
				cells := make([]string, len(header))
				for i, col := range header {
					if value, ok := row[col]; ok {
						cells[i] = fmt.Sprint(value)
					}
				}
				fmt.Println(strings.Join(cells, " | "))
			}
			fmt.Printf("(%d of %d rows)\n", len(rows), total)
			return nil
		},
	}
	previewCmd.Flags().IntVarP(&previewRows, "rows", "r", 5, "Rows to show (0 = all)")

	// convert (remote CSV conversion)
	convertCmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert the completed result to CSV on the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, sessionToken)
			if err != nil {
				return err
			}

			csvFile, err := a.ctrl.ExportCSV(&a.ctrl.Session().Generate)
			a.save()
			if err != nil {
				return err
			}
			fmt.Printf("CSV conversion successful: %s\n", csvFile)
			return nil
		},
	}

	// upload
	uploadCmd := &cobra.Command{
		Use:   "upload <file.csv>",
		Short: "Upload a source CSV and detect its schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, sessionToken)
			if err != nil {
				return err
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer file.Close()

			result, err := a.ctrl.Upload(filepath.Base(args[0]), file)
			if err != nil {
				return err
			}
			a.save()

			fmt.Printf("File processed successfully! Detected %d rows.\n", result.RowCount)
			printColumns(result.ColumnInfo)
			fmt.Printf("Suggested rows to append: %d\n", session.DefaultAppendRows(result.RowCount))
			return nil
		},
	}

	// append
	var (
		appendRows     int
		appendModel    string
		appendProvider string
		appendBatch    int
		appendParallel bool
		appendWatch    bool
		appendWait     bool
	)
	appendCmd := &cobra.Command{
		Use:   "append",
		Short: "Generate rows matching the uploaded file and append them",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, sessionToken)
			if err != nil {
				return err
			}

			upload := a.ctrl.Session().Upload
			if upload == nil {
				return session.ErrNoUpload
			}

			rows := appendRows
			if !cmd.Flags().Changed("rows") {
				rows = session.DefaultAppendRows(upload.RowCount)
			}

			err = a.ctrl.SubmitAppend(session.AppendOptions{
				Rows:      rows,
				Model:     appendModel,
				Provider:  appendProvider,
				BatchSize: appendBatch,
				Parallel:  appendParallel,
			})
			if err != nil {
				return err
			}
			a.save()

			workflow := &a.ctrl.Session().Append
			fmt.Printf("Append task submitted! Task ID: %s\n", workflow.TaskID)

			if !appendWatch && !appendWait {
				return nil
			}

			status, err := a.watchTask(workflow, "append", appendWatch)
			a.save()
			if err != nil {
				return watchError(workflow, status, err)
			}
			return reportTerminal(workflow, status)
		},
	}
	appendCmd.Flags().IntVarP(&appendRows, "rows", "r", 0, "Rows to append (default: 10% of detected rows)")
	appendCmd.Flags().StringVarP(&appendModel, "model", "m", "gemma3:latest", "LLM model")
	appendCmd.Flags().StringVarP(&appendProvider, "provider", "p", cfg.Provider, "LLM provider (ollama, google)")
	appendCmd.Flags().IntVarP(&appendBatch, "batch-size", "b", cfg.BatchSize, "Batch size")
	appendCmd.Flags().BoolVarP(&appendParallel, "parallel", "", false, "Enable parallel processing")
	appendCmd.Flags().BoolVarP(&appendWatch, "watch", "w", false, "Watch the task with a live view")
	appendCmd.Flags().BoolVarP(&appendWait, "wait", "", false, "Wait for the task without the live view")

	// download
	downloadCmd := &cobra.Command{
		Use:   "download",
		Short: "Download the appended CSV for the uploaded file",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, sessionToken)
			if err != nil {
				return err
			}

			upload := a.ctrl.Session().Upload
			if upload == nil {
				return session.ErrNoUpload
			}

			content, err := a.ctrl.DownloadAppended()
			if err != nil {
				return err
			}

			path, err := a.exporter.WriteAppended(upload.Filename, content)
			if err != nil {
				return err
			}
			fmt.Printf("Appended CSV staged: %s\n", path)
			return nil
		},
	}

	// reset-upload
	resetUploadCmd := &cobra.Command{
		Use:   "reset-upload",
		Short: "Discard the uploaded file and the append workflow",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, sessionToken)
			if err != nil {
				return err
			}
			a.ctrl.ResetUpload()
			a.save()
			fmt.Println("Upload context cleared")
			return nil
		},
	}

	// session management
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Manage persisted sessions",
	}
	sessionNewCmd := &cobra.Command{
		Use:   "new",
		Short: "Start a fresh session and make it current",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.NewStore()
			if err != nil {
				return err
			}
			sess := session.NewSession(storage.NewToken())
			if err := store.Save(sess); err != nil {
				return err
			}
			if err := store.SetCurrent(sess.Token); err != nil {
				return err
			}
			fmt.Printf("New session: %s\n", sess.Token)
			return nil
		},
	}
	sessionListCmd := &cobra.Command{
		Use:   "list",
		Short: "List persisted sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.NewStore()
			if err != nil {
				return err
			}
			tokens, err := store.List()
			if err != nil {
				return err
			}
			current, _ := store.Current()
			for _, token := range tokens {
				marker := " "
				if token == current {
					marker = "*"
				}
				fmt.Printf("%s %s\n", marker, token)
			}
			return nil
		},
	}
	sessionCmd.AddCommand(sessionNewCmd, sessionListCmd)

	rootCmd.AddCommand(
		columnCmd, pingCmd, generateCmd, tasksCmd, statusCmd, cancelCmd,
		loadCmd, fetchCmd, previewCmd, convertCmd, uploadCmd, appendCmd,
		downloadCmd, resetUploadCmd, sessionCmd,
	)

	err := rootCmd.Execute()
	logger.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// watchError maps poller terminations onto CLI outcomes: a user stop is
// not a failure, an exhausted attempt cap is
func watchError(workflow *session.Workflow, status models.TaskStatus, err error) error {
	if errors.Is(err, poller.ErrStopped) {
		fmt.Printf("Stopped watching task %s (last status: %s)\n", workflow.TaskID, status)
		return nil
	}
	if errors.Is(err, poller.ErrMaxAttempts) {
		return fmt.Errorf("task %s did not finish within the attempt cap (last status: %s)", workflow.TaskID, status)
	}
	return err
}

// reportTerminal prints the outcome of a watched task
func reportTerminal(workflow *session.Workflow, status models.TaskStatus) error {
	switch status {
	case models.TaskStatusCompleted:
		fmt.Printf("Task %s completed. Fetch results with 'synthgen fetch'.\n", workflow.TaskID)
		return nil
	case models.TaskStatusFailed:
		return fmt.Errorf("generation failed: %s", workflow.Failure)
	default:
		fmt.Printf("Stopped watching task %s (last status: %s)\n", workflow.TaskID, status)
		return nil
	}
}

func joinTypes() string {
	names := make([]string, len(models.DataTypes))
	for i, dt := range models.DataTypes {
		names[i] = string(dt)
	}
	return strings.Join(names, ", ")
}
