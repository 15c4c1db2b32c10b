package main

/*
Scanner daemon.

Follows the mainchain through a node's RPC interface, files every
sidechain commitment it sees into a sqlite object store, and (optionally)
serves the diagnostic http reporter on top of that store.

Configuration is via environment variables, with SCAN_CONFIG optionally
pointing at a config file:

	MAINCHAIN_RPC_ADDR, MAINCHAIN_RPC_PORT,
	MAINCHAIN_RPC_USER, MAINCHAIN_RPC_PWD,
	DB_PATH, START_BLOCK,
	REPORTER_IP, REPORTER_PORT (reporter off when unset)
*/

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/drivechain-project/sidechain-go/chainscan"
	"github.com/drivechain-project/sidechain-go/cmd"
	"github.com/drivechain-project/sidechain-go/logconfig"
	"github.com/drivechain-project/sidechain-go/reporter"
	"github.com/drivechain-project/sidechain-go/sidechaindb"
)

const (
	ENV_CONFIG_FILE_PATH = "SCAN_CONFIG"
)

func main() {
	logconfig.ConfigProductionLogger()

	// Tool to read environment variables
	viper.AutomaticEnv()
	viper.SetDefault("DB_PATH", "./sidechain.db")
	viper.SetDefault("START_BLOCK", 0)

	// Optional configuration file on top of the environment.
	_config_file := viper.GetString(ENV_CONFIG_FILE_PATH)
	if _config_file != "" {
		if !cmd.FileExists(_config_file) {
			fmt.Printf("scanner configuration file not found: %s\n", _config_file)
			return
		}
		viper.SetConfigFile(_config_file)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Printf("error reading configuration file: %s\n", err)
			return
		}
	}

	source, err := cmd.SetupRpcSource(
		viper.GetString("MAINCHAIN_RPC_ADDR"),
		viper.GetString("MAINCHAIN_RPC_PORT"),
		viper.GetString("MAINCHAIN_RPC_USER"),
		viper.GetString("MAINCHAIN_RPC_PWD"),
	)
	if err != nil {
		return
	}
	defer source.Close()

	storage, err := sidechaindb.NewSQLiteObjectStorage(viper.GetString("DB_PATH"))
	if err != nil {
		fmt.Printf("error opening object storage: %s\n", err)
		return
	}
	defer storage.Close()

	// Diagnostic reporter is optional.
	if ip, port := viper.GetString("REPORTER_IP"), viper.GetString("REPORTER_PORT"); ip != "" && port != "" {
		r := reporter.NewHttpReporter(ip, port, storage)
		go r.Run()
	}

	monitor := chainscan.NewMonitor(source, storage, viper.GetInt64("START_BLOCK"))
	monitor.ScanLoop()
}
