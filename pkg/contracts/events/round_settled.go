package events

// Evento consumido pelo bounty-sweeper-worker: a rodada foi encerrada
// e liquidada, a janela de claim começa a contar a partir de
// round_end_time.
type RoundSettled struct {
	PoolID       string `json:"pool_id"`
	RoundID      uint64 `json:"round_id"`
	RoundEndTime int64  `json:"round_end_time"`
	TsUnixMs     int64  `json:"ts_unix_ms"`
}
