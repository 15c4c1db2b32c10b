package cmd

import (
	"os"

	logger "github.com/sirupsen/logrus"

	"github.com/drivechain-project/sidechain-go/chainscan"
)

// FileExists checks if a file exists and is readable
func FileExists(filePath string) bool {
	file, err := os.Open(filePath)
	if err != nil {
		return false
	}
	defer file.Close()
	return true
}

// Shared Helper function. Create a block source backed by a mainchain node.
func SetupRpcSource(server string, port string, username string, password string) (*chainscan.RpcSource, error) {
	_config := chainscan.RpcSourceConfig{
		ServerAddr: server,
		Port:       port,
		Username:   username,
		Pwd:        password,
	}
	r, err := chainscan.NewRpcSource(&_config)
	if err != nil {
		logger.Fatalf("failed to create mainchain rpc source: %v", err)
		return nil, err
	}
	return r, nil
}
