package app

import (
	"github.com/spf13/cobra"

	"github.com/climatiqq/climatiqq/internal/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Store entries published over MQTT",
	Long: `Subscribe to mqtt.topic on mqtt.broker and store every message as an
impact entry. Payloads use the POST /api/entries shape:

  {"user": "ana", "metric_type": "carbon", "value": 4.2,
   "description": "bus", "created_at": "2026-03-01T08:00:00Z"}

Messages on <topic>/<user> without a user field are attributed to <user>.
Invalid messages are logged and dropped.`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	handler := ingest.NewHandler(env.db, env.cfg.MQTT.Topic, env.user())
	return ingest.NewSubscriber(env.cfg.MQTT, handler, env.log).Run(ctx)
}
