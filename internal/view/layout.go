package view

// Region ids.
const (
	Portfolio     = "portfolio-value"
	SessionPnL    = "session-pnl"
	HistoricalPnL = "historical-pnl"
	RealGain      = "real-gain"
	SessionTrades = "session-trades"
	TradesWon     = "trades-won"
	TradesLost    = "trades-lost"
	BiggestWin    = "biggest-win"
	MarketPrice   = "market-price"
	MarketToday   = "market-today"
	Market15Min   = "market-15min"
	Market5Min    = "market-5min"
	BotStatus     = "bot-status"
	LastSignal    = "last-signal"
	NextCandle    = "next-candle"

	OpenPositions = "open-positions"
	TradesHistory = "trades-history"

	EditPortfolioButton = "edit-portfolio"
	PauseButton         = "pause-btn"
	CloseAllButton      = "close-all"
)

// Pause button states.
const (
	PauseIcon   = "⏸"
	PauseLabel  = "Pause Bot"
	ResumeIcon  = "▶"
	ResumeLabel = "Resume Bot"
)

type ElementSpec struct {
	ID       string
	Label    string
	Bordered bool
}

type ListSpec struct {
	ID    string
	Label string
}

type ButtonSpec struct {
	ID    string
	Key   string
	Icon  string
	Label string
}

// Layout describes which regions a document has and in what order.
type Layout struct {
	Rows    [][]ElementSpec
	Lists   []ListSpec
	Buttons []ButtonSpec
}

// DefaultLayout is the four-line dashboard with its two lists and three
// controls. symbol labels the market-price line.
func DefaultLayout(symbol string) Layout {
	if symbol == "" {
		symbol = "BTC"
	}
	return Layout{
		Rows: [][]ElementSpec{
			{
				{ID: Portfolio, Label: "Portfolio"},
				{ID: SessionPnL, Label: "Session P&L", Bordered: true},
				{ID: HistoricalPnL, Label: "Historical P&L", Bordered: true},
				{ID: RealGain, Label: "Realized Gain/Loss", Bordered: true},
			},
			{
				{ID: SessionTrades, Label: "Session Trades"},
				{ID: TradesWon, Label: "Won", Bordered: true},
				{ID: TradesLost, Label: "Lost", Bordered: true},
				{ID: BiggestWin, Label: "Biggest Win", Bordered: true},
			},
			{
				{ID: MarketPrice, Label: symbol + " Price"},
				{ID: MarketToday, Label: symbol + " Today", Bordered: true},
				{ID: Market15Min, Label: symbol + " 15min", Bordered: true},
				{ID: Market5Min, Label: symbol + " 5min", Bordered: true},
			},
			{
				{ID: BotStatus, Label: "Status"},
				{ID: LastSignal, Label: "Last Signal"},
				{ID: NextCandle, Label: "Next Candle"},
			},
		},
		Lists: []ListSpec{
			{ID: OpenPositions, Label: "Open Positions"},
			{ID: TradesHistory, Label: "Trade History"},
		},
		Buttons: []ButtonSpec{
			{ID: EditPortfolioButton, Key: "e", Icon: "✎", Label: "Edit Portfolio"},
			{ID: PauseButton, Key: "p", Icon: PauseIcon, Label: PauseLabel},
			{ID: CloseAllButton, Key: "c", Icon: "✕", Label: "Close All Positions"},
		},
	}
}
