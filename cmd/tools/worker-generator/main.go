// cmd/tools/worker-generator/main.go
//
// Scaffolds a new Zeebe worker package under internal/workers/<group>/<task>/
// with the four files every worker in this repo carries: config.go,
// models.go, handler.go, and handler_test.go. The generated handler follows
// the shared template (unmarshal job variables, run with a timeout, complete
// or throw a BPMN error) so a new worker starts consistent with the rest.
//
// Usage:
//
//	worker-generator -group recommendation -task compare-trims
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// WorkerData feeds the file templates.
type WorkerData struct {
	Group       string // directory group, e.g. "recommendation"
	TaskType    string // Zeebe task type, e.g. "compare-trims"
	PackageName string // Go package name, e.g. "comparetrims"
	ErrorCode   string // default BPMN error code, e.g. "COMPARE_TRIMS_FAILED"
}

const configTemplate = `// internal/workers/{{ .Group }}/{{ .TaskType }}/config.go
package {{ .PackageName }}

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
`

const modelsTemplate = `// internal/workers/{{ .Group }}/{{ .TaskType }}/models.go
package {{ .PackageName }}

type Input struct {
}

type Output struct {
}
`

const handlerTemplate = `// internal/workers/{{ .Group }}/{{ .TaskType }}/handler.go
package {{ .PackageName }}

import (
	"context"
	"encoding/json"
	"fmt"

	"autotrader-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "{{ .TaskType }}"

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "{{ .ErrorCode }}", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	return nil, fmt.Errorf("not implemented")
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err})
		return
	}
	if _, err = cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{"error": err})
	}
}

// Execute exposes the core logic for tests and in-process pipelines.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
`

const testTemplate = `// internal/workers/{{ .Group }}/{{ .TaskType }}/handler_test.go
package {{ .PackageName }}

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"autotrader-workers/internal/common/logger"
)

func TestExecute_NotImplemented(t *testing.T) {
	h := NewHandler(LoadConfig(), logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{})

	require.Error(t, err)
}
`

var templates = map[string]string{
	"config.go":       configTemplate,
	"models.go":       modelsTemplate,
	"handler.go":      handlerTemplate,
	"handler_test.go": testTemplate,
}

func main() {
	group := flag.String("group", "", "Worker group directory (e.g. recommendation, data-access)")
	task := flag.String("task", "", "Zeebe task type in kebab-case (e.g. compare-trims)")
	force := flag.Bool("force", false, "Overwrite existing files")
	flag.Parse()

	if *group == "" || *task == "" {
		fmt.Println("Error: -group and -task are required.")
		flag.Usage()
		os.Exit(1)
	}
	if !validKebab(*task) {
		fmt.Printf("Error: task %q must be lowercase kebab-case\n", *task)
		os.Exit(1)
	}

	data := WorkerData{
		Group:       *group,
		TaskType:    *task,
		PackageName: strings.ReplaceAll(*task, "-", ""),
		ErrorCode:   strings.ToUpper(strings.ReplaceAll(*task, "-", "_")) + "_FAILED",
	}

	dir := filepath.Join("internal", "workers", data.Group, data.TaskType)
	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Printf("Error creating directory %s: %v\n", dir, err)
		os.Exit(1)
	}

	for filename, tmplStr := range templates {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil && !*force {
			fmt.Printf("Skipping %s (exists, use -force to overwrite)\n", path)
			continue
		}

		tmpl, err := template.New(filename).Parse(tmplStr)
		if err != nil {
			fmt.Printf("Error parsing template %s: %v\n", filename, err)
			os.Exit(1)
		}

		out, err := os.Create(path)
		if err != nil {
			fmt.Printf("Error creating %s: %v\n", path, err)
			os.Exit(1)
		}
		if err := tmpl.Execute(out, data); err != nil {
			out.Close()
			fmt.Printf("Error executing template for %s: %v\n", filename, err)
			os.Exit(1)
		}
		out.Close()
		fmt.Printf("Generated %s\n", path)
	}

	fmt.Printf("\nWorker %q scaffolded. Next steps:\n", data.TaskType)
	fmt.Println("  1. Fill in the Input/Output contracts in models.go")
	fmt.Println("  2. Implement execute() in handler.go")
	fmt.Println("  3. Register the handler in cmd/worker-manager/main.go")
	fmt.Println("  4. Add the task type to configs/config.yaml under workers:")
}

func validKebab(s string) bool {
	if s == "" || strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}
