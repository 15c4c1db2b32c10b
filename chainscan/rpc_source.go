package chainscan

import (
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/btcsuite/btcd/wire"
)

type RpcSourceConfig struct {
	ServerAddr string // ip address of the mainchain node
	Port       string
	Username   string
	Pwd        string
}

// RpcSource is a BlockSource backed by a mainchain node's JSON-RPC
// interface.
type RpcSource struct {
	client *rpcclient.Client
}

func NewRpcSource(cfg *RpcSourceConfig) (*RpcSource, error) {
	// Plain HTTP POST; the stock node supports neither keep-alive
	// notifications nor TLS out of the box.
	client, err := rpcclient.New(&rpcclient.ConnConfig{
		Host:         cfg.ServerAddr + ":" + cfg.Port,
		User:         cfg.Username,
		Pass:         cfg.Pwd,
		HTTPPostMode: true,
		DisableTLS:   true,
	}, nil)
	if err != nil {
		return nil, err
	}
	return &RpcSource{client: client}, nil
}

func (r *RpcSource) Close() {
	r.client.Shutdown()
}

func (r *RpcSource) GetLatestBlockHeight() (int64, error) {
	return r.client.GetBlockCount()
}

func (r *RpcSource) GetBlockByHeight(height int64) (*wire.MsgBlock, error) {
	hash, err := r.client.GetBlockHash(height)
	if err != nil {
		return nil, err
	}
	return r.client.GetBlock(hash)
}
