package events

// Evento publicado no tópico "revenue_finalized" quando a receita de
// uma rodada é dividida e congelada.
type RevenueFinalized struct {
	PoolID         string `json:"pool_id"`
	RoundID        uint64 `json:"round_id"`
	ProtocolProfit uint64 `json:"protocol_profit"`
	SeasonShare    uint64 `json:"season_share"`
	TsUnixMs       int64  `json:"ts_unix_ms"`
}
