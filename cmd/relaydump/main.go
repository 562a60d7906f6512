// relaydump dumps the correlation-record store as JSON lines, one record per
// line, for operators and downstream relayer debugging.
//
//	RELAY_DB_PATH=/var/lib/relay/records relaydump
//	RELAY_DB_PATH=... RELAY_NONCE=42 relaydump
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"

	"github.com/noble-assets/cctp-relay/internal/bridge"
	"github.com/noble-assets/cctp-relay/internal/relay"
	"github.com/noble-assets/cctp-relay/internal/store"
	"github.com/noble-assets/cctp-relay/pkg/db/pebble"
	"github.com/noble-assets/cctp-relay/pkg/log"
)

type config struct {
	DBPath   string  `env:"RELAY_DB_PATH,required"`
	LogLevel string  `env:"RELAY_LOG_LEVEL" envDefault:"info"`
	Nonce    *uint64 `env:"RELAY_NONCE"`
}

type recordJSON struct {
	PrimaryNonce   uint64 `json:"primary_nonce"`
	AuxiliaryNonce uint64 `json:"auxiliary_nonce"`
	Metadata       string `json:"metadata"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "relaydump:", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return err
	}

	level, err := log.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.Init(log.Options{LogLevel: level, Type: log.ConsoleLogger})

	kv, err := pebble.NewKVStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer kv.Close()

	records := store.NewRecords(kv)
	defer records.Close()

	enc := json.NewEncoder(os.Stdout)

	if cfg.Nonce != nil {
		rec, err := records.Get(bridge.Nonce(*cfg.Nonce))
		if err != nil {
			return err
		}
		return enc.Encode(toJSON(rec))
	}

	all, err := records.All()
	if err != nil {
		return err
	}
	log.Store.Debug().Int("count", len(all)).Msg("records loaded")
	for _, rec := range all {
		if err := enc.Encode(toJSON(rec)); err != nil {
			return err
		}
	}
	return nil
}

func toJSON(rec relay.Record) recordJSON {
	return recordJSON{
		PrimaryNonce:   uint64(rec.PrimaryNonce),
		AuxiliaryNonce: uint64(rec.AuxiliaryNonce),
		Metadata:       hex.EncodeToString(rec.Metadata),
	}
}
