package agent

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/orris-inc/helpdesk/internal/application/agent/usecases"
	"github.com/orris-inc/helpdesk/internal/infrastructure/auth"
	"github.com/orris-inc/helpdesk/internal/infrastructure/config"
	"github.com/orris-inc/helpdesk/internal/infrastructure/database"
	"github.com/orris-inc/helpdesk/internal/infrastructure/repository"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

var (
	env        string
	configPath string

	agentName     string
	agentEmail    string
	agentPassword string
	agentRole     string
)

// NewCommand manages support agent accounts. There is no public sign-up, so the
// first admin is created here.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Manage support agent accounts",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(newCreateCommand(), newListCommand())
	return cmd
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an agent account",
		RunE:  runCreate,
	}

	cmd.Flags().StringVar(&agentName, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&agentEmail, "email", "", "Login email (required)")
	cmd.Flags().StringVar(&agentPassword, "password", "", "Password, at least 8 characters (default: $HELPDESK_AGENT_PASSWORD)")
	cmd.Flags().StringVar(&agentRole, "role", "agent", "Role: admin or agent")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List agent accounts",
		RunE:  runList,
	}
}

func initEnv() (*config.Config, logger.Interface, error) {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return cfg, logger.NewComponentLogger("agent-cli"), nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	if agentPassword == "" {
		agentPassword = os.Getenv("HELPDESK_AGENT_PASSWORD")
	}

	cfg, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	uc := usecases.NewCreateAgentUseCase(
		repository.NewAgentRepository(database.Get(), log),
		auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost),
		log,
	)

	created, err := uc.Execute(cmd.Context(), usecases.CreateAgentCommand{
		Name:     agentName,
		Email:    agentEmail,
		Password: agentPassword,
		Role:     agentRole,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Agent %d created: %s <%s> (%s)\n", created.ID, created.Name, created.Email, created.Role)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	_, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	agents, err := usecases.NewListAgentsUseCase(repository.NewAgentRepository(database.Get(), log), log).Execute(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tACTIVE")
	for _, a := range agents {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\n", a.ID, a.Name, a.Email, a.Role, a.Active)
	}
	return w.Flush()
}
