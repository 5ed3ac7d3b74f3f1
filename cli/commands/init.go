package commands

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/schemaflow/cli/internal/config"
	"github.com/satishbabariya/schemaflow/cli/internal/ui"
)

const defaultSnapshot = `# Declarative schema snapshot.
# Describe the schema you want; schemaflow plans the migrations.

tables:
  - name: users
    columns:
      - name: id
        type: SERIAL
        nullable: false
      - name: email
        type: VARCHAR(255)
        nullable: false
      - name: created_at
        type: TIMESTAMP
        nullable: false
        default: CURRENT_TIMESTAMP
    constraints:
      - kind: primary_key
        columns: [id]
      - kind: unique
        columns: [email]
`

const defaultConfig = `dialect: postgresql
snapshot_path: schema.yaml
migrations_dir: migrations
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a schemaflow project",
		Long:  "Create a starter snapshot and configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit()
		},
	}
}

func runInit() error {
	fs := config.AppFs

	files := []struct {
		path    string
		content string
	}{
		{"schema.yaml", defaultSnapshot},
		{".schemaflow.yaml", defaultConfig},
	}

	for _, f := range files {
		if ok, _ := afero.Exists(fs, f.path); ok {
			return fmt.Errorf("%s already exists", f.path)
		}
		if err := afero.WriteFile(fs, f.path, []byte(f.content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.path, err)
		}
		ui.PrintSuccess("Created %s", f.path)
	}

	fmt.Println("\nNext steps:")
	fmt.Println("1. Set DATABASE_URL in your .env file")
	fmt.Println("2. Edit schema.yaml to describe your schema")
	fmt.Println("3. Run `schemaflow plan` to generate the first migration")
	fmt.Println("4. Run `schemaflow apply` to run it")
	return nil
}
