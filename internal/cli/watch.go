package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "watch <game-id>",
		Short: "Watch a game's events over the websocket endpoint",
		Long: `Connect to the server's websocket endpoint, join the given game,
and print every game_updated event as it arrives.

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchGame(args[0], jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// wsEvent is the envelope for server-to-client events
type wsEvent struct {
	Type string `json:"type"`
	Game *Game  `json:"game,omitempty"`
}

func watchGame(gameID string, jsonOutput bool) error {
	wsURL, err := websocketURL(cfg.ServerURL, cfg.Token)
	if err != nil {
		return err
	}

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("connection failed: %w (HTTP %d)", err, resp.StatusCode)
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	// Join the game's room
	join := map[string]string{
		"type":    "join_game",
		"game_id": gameID,
	}
	if err := conn.WriteJSON(join); err != nil {
		return fmt.Errorf("failed to join game: %w", err)
	}

	if !jsonOutput {
		fmt.Printf("Watching game %s\n", gameID)
	}

	// Close the connection on Ctrl+C; the read loop unblocks with an error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			_ = conn.Close()
		case <-done:
		}
	}()
	defer close(done)

	out := NewOutput(cfg.Output)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) || strings.Contains(err.Error(), "use of closed") {
				if !jsonOutput {
					fmt.Println("\nDisconnected")
				}
				return nil
			}
			return fmt.Errorf("stream error: %w", err)
		}

		var event wsEvent
		if err := json.Unmarshal(message, &event); err != nil {
			continue
		}

		if jsonOutput {
			fmt.Println(string(message))
			continue
		}

		switch event.Type {
		case "connect_response":
			fmt.Println("Connected")
		case "game_updated":
			if event.Game != nil {
				fmt.Printf("[%s] game updated\n", time.Now().Format("2006-01-02 15:04:05"))
				out.Print(*event.Game)
			}
		}
	}
}

// websocketURL converts the configured HTTP server URL into a ws:// or
// wss:// URL for the /ws endpoint, carrying the token as a query parameter.
func websocketURL(serverURL, token string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}

	u.Path = "/ws"
	if token != "" {
		q := u.Query()
		q.Set("token", token)
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}
