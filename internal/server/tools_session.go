package server

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/saptools/sapmcp/internal/config"
)

func (s *Server) registerSessionTools() {
	s.addTool(mutatingTool("sap_open_logon_pad",
		"Start the SAP Logon pad if it is not already running and wait for the "+
			"scripting engine to come up. Use before sap_login when SAP is not started.",
		mcp.WithNumber("wait_seconds", mcp.Description("How long to wait for the scripting engine, in seconds. Defaults to the configured launch wait.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		wait := s.launchWait
		if secs := req.GetInt("wait_seconds", 0); secs > 0 {
			wait = time.Duration(secs) * time.Second
		}
		if err := s.sessions.OpenLogonPad(wait); err != nil {
			return nil, err
		}
		return textResult("sap logon running")
	})

	s.addTool(mutatingTool("sap_login",
		"Log in to an SAP system. Opens a new connection and drives the logon screen. "+
			"Omitted parameters fall back to the SAP_SYSTEM, SAP_CLIENT, SAP_USER, "+
			"SAP_PASSWORD, SAP_LANGUAGE and SAP_USE_SSO environment variables.",
		mcp.WithString("system", mcp.Description("System description as shown in SAP Logon.")),
		mcp.WithString("client", mcp.Description("Client number, e.g. 100.")),
		mcp.WithString("user", mcp.Description("User name.")),
		mcp.WithString("password", mcp.Description("Password. Prefer the SAP_PASSWORD environment variable.")),
		mcp.WithString("language", mcp.Description("Logon language, defaults to EN.")),
		mcp.WithBoolean("use_sso", mcp.Description("Use single sign-on; only the system is required.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		creds := config.ResolveCredentials(config.CredentialArgs{
			System:   req.GetString("system", ""),
			Client:   req.GetString("client", ""),
			User:     req.GetString("user", ""),
			Password: req.GetString("password", ""),
			Language: req.GetString("language", ""),
			UseSSO:   req.GetBool("use_sso", false),
		})
		sess, err := s.sessions.Login(creds, s.launchWait)
		if err != nil {
			return nil, err
		}
		details, err := s.ops.SessionDetails(sess)
		if err != nil {
			return nil, err
		}
		return jsonResult(details)
	})

	s.addTool(readOnlyTool("sap_session_info",
		"Report the current session's identity: session id, user, client, language and system.",
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		details, err := s.ops.SessionDetails(sess)
		if err != nil {
			return nil, err
		}
		return jsonResult(details)
	})

	s.addTool(readOnlyTool("sap_is_busy",
		"Report whether the session is still processing a roundtrip. Poll this after asynchronous commands.",
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		busy, err := s.ops.Busy(sess)
		if err != nil {
			return nil, err
		}
		return jsonResult(map[string]bool{"busy": busy})
	})

	s.addTool(mutatingTool("sap_start_transaction",
		"Start a transaction by code, e.g. VA01 or SE16.",
		mcp.WithString("transaction_code", mcp.Required(), mcp.Description("Transaction code to start.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		code, err := req.RequireString("transaction_code")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		if err := s.ops.StartTransaction(sess, code); err != nil {
			return nil, err
		}
		return textResult("started transaction %s", code)
	})

	s.addTool(mutatingTool("sap_end_transaction",
		"End the current transaction and return to the initial screen.",
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		if err := s.ops.EndTransaction(sess); err != nil {
			return nil, err
		}
		return textResult("ended transaction")
	})

	s.addTool(mutatingTool("sap_send_command",
		"Execute an okcode in the command field, e.g. /nVA01, and wait for the roundtrip.",
		mcp.WithString("command", mcp.Required(), mcp.Description("Okcode to execute.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		command, err := req.RequireString("command")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		if err := s.ops.SendCommand(sess, command); err != nil {
			return nil, err
		}
		return textResult("executed command %s", command)
	})

	s.addTool(mutatingTool("sap_send_command_async",
		"Dispatch an okcode without waiting for completion. Use sap_is_busy to detect when the roundtrip finishes.",
		mcp.WithString("command", mcp.Required(), mcp.Description("Okcode to dispatch.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		command, err := req.RequireString("command")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		if err := s.ops.SendCommandAsync(sess, command); err != nil {
			return nil, err
		}
		return textResult("dispatched command %s", command)
	})

	s.addTool(mutatingTool("sap_send_vkey",
		"Send a virtual key to the active window, e.g. 0 for Enter, 8 for F8, 11 for Ctrl+S.",
		mcp.WithNumber("key", mcp.Required(), mcp.Description("Virtual key number.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key, err := req.RequireInt("key")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		if err := sess.SendVKey(key); err != nil {
			return nil, err
		}
		return textResult("sent virtual key %d", key)
	})

	s.addTool(mutatingTool("sap_maximize_window",
		"Maximize the active window. Idempotent.",
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sess, err := s.sessions.Current()
		if err != nil {
			return nil, err
		}
		if err := s.ops.MaximizeWindow(sess); err != nil {
			return nil, err
		}
		return textResult("maximized active window")
	})
}
