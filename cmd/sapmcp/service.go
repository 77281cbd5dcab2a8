package main

import (
	"context"
	"fmt"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"

	"github.com/saptools/sapmcp/internal/config"
)

// svcConfig describes the system service registration. The service runs
// `sapmcp service run`, which serves MCP over stdio for a supervising
// client.
func svcConfig(configPath string) *service.Config {
	args := []string{"service", "run"}
	if configPath != "" {
		args = append(args, "--config", configPath)
	}
	return &service.Config{
		Name:        "sapmcp",
		DisplayName: "SAP MCP Server",
		Description: "Exposes SAP GUI scripting as MCP tools.",
		Arguments:   args,
	}
}

// program adapts the serve loop to the service manager lifecycle.
type program struct {
	cfg    *config.Config
	cancel context.CancelFunc
	done   chan error
}

func (p *program) Start(_ service.Service) error {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan error, 1)
	go func() { p.done <- runServe(ctx, p.cfg) }()
	return nil
}

func (p *program) Stop(_ service.Service) error {
	p.cancel()
	return <-p.done
}

func serviceCmd() *cobra.Command {
	parent := &cobra.Command{
		Use:   "service",
		Short: "Manage sapmcp as a system service",
	}

	control := func(action string) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			svc, err := newService(cmd, cfgPath)
			if err != nil {
				return err
			}
			if err := service.Control(svc, action); err != nil {
				return fmt.Errorf("service %s: %w", action, err)
			}
			fmt.Printf("service %s: ok\n", action)
			return nil
		}
	}

	parent.AddCommand(
		&cobra.Command{Use: "install", Short: "Install the system service", RunE: control("install")},
		&cobra.Command{Use: "uninstall", Short: "Remove the system service", RunE: control("uninstall")},
		&cobra.Command{Use: "start", Short: "Start the installed service", RunE: control("start")},
		&cobra.Command{Use: "stop", Short: "Stop the installed service", RunE: control("stop")},
		&cobra.Command{
			Use:   "run",
			Short: "Run under the service manager (invoked by the manager, not by hand)",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfgPath, _ := cmd.Flags().GetString("config")
				svc, err := newService(cmd, cfgPath)
				if err != nil {
					return err
				}
				return svc.Run()
			},
		},
	)
	return parent
}

func newService(cmd *cobra.Command, cfgPath string) (service.Service, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return service.New(&program{cfg: cfg}, svcConfig(cfgPath))
}
