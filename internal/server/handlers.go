package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// StatusResponse はステータスエンドポイントのレスポンス
type StatusResponse struct {
	Status    string     `json:"status"`
	Server    ServerInfo `json:"server"`
	Root      string     `json:"root"`
	Sniff     bool       `json:"sniff"`
	Timestamp time.Time  `json:"timestamp"`
}

// ServerInfo はリッスン中のアドレス情報
type ServerInfo struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// handleStatus はステータス確認エンドポイント
func (s *Server) handleStatus(c *gin.Context) {
	response := StatusResponse{
		Status: "running",
		Server: ServerInfo{
			Host: s.config.Server.Host,
			Port: s.Port(),
		},
		Root:      s.config.Static.Root,
		Sniff:     s.config.Static.Sniff,
		Timestamp: time.Now(),
	}

	c.JSON(http.StatusOK, response)
}
