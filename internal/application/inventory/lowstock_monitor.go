package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
	"github.com/robfig/cron/v3"
)

const alertBuffer = 64

// LowStockMonitor escanea el Ledger periódicamente y publica alertas por los
// registros en o bajo su umbral. El escaneo es de solo lectura sobre estado
// confirmado; el mismo camino sirve la consulta bajo demanda del UI.
type LowStockMonitor struct {
	stockRepo repository.StockRepository
	log       *logger.Logger
	interval  time.Duration
	cron      *cron.Cron
	alerts    chan []dto.LowStockAlertDTO
}

// NewLowStockMonitor construye el monitor. interval <= 0 usa 5 minutos.
func NewLowStockMonitor(stockRepo repository.StockRepository, log *logger.Logger, interval time.Duration) *LowStockMonitor {
	if log == nil {
		log = logger.Nop()
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &LowStockMonitor{
		stockRepo: stockRepo,
		log:       log,
		interval:  interval,
		alerts:    make(chan []dto.LowStockAlertDTO, alertBuffer),
	}
}

// Alerts canal de notificación. Cada escaneo con hallazgos emite a lo sumo un
// lote; si nadie consume, los lotes viejos se descartan en favor del próximo.
func (m *LowStockMonitor) Alerts() <-chan []dto.LowStockAlertDTO {
	return m.alerts
}

// Scan consulta los registros en o bajo umbral, ordenados por nombre.
func (m *LowStockMonitor) Scan(ctx context.Context) ([]dto.LowStockAlertDTO, error) {
	records, err := m.stockRepo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	alerts := make([]dto.LowStockAlertDTO, 0, len(records))
	for _, rec := range records {
		alerts = append(alerts, dto.LowStockAlertDTO{
			Name:              rec.Name,
			Warehouse:         rec.WarehouseName,
			Quantity:          rec.Quantity.IntPart(),
			LowStockThreshold: rec.LowStockThreshold.IntPart(),
		})
	}
	return alerts, nil
}

// Start programa el escaneo periódico. Un escaneo fallido se registra y el
// siguiente tick corre con normalidad.
func (m *LowStockMonitor) Start() error {
	if m.cron != nil {
		return nil
	}
	c := cron.New()
	spec := "@every " + m.interval.String()
	if _, err := c.AddFunc(spec, m.tick); err != nil {
		return err
	}
	m.cron = c
	c.Start()
	m.log.Info().Str("interval", m.interval.String()).Msg("monitor de stock bajo iniciado")
	return nil
}

// Stop detiene el escaneo periódico y espera el tick en curso.
func (m *LowStockMonitor) Stop() {
	if m.cron == nil {
		return
	}
	<-m.cron.Stop().Done()
	m.cron = nil
}

func (m *LowStockMonitor) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	alerts, err := m.Scan(ctx)
	if err != nil {
		m.log.Error().Err(err).Msg("escaneo de stock bajo falló")
		return
	}
	if len(alerts) == 0 {
		return
	}
	m.log.Warn().Int("count", len(alerts)).Msg("registros en o bajo umbral")
	select {
	case m.alerts <- alerts:
	default:
		// Sin consumidor: se descarta el lote, el próximo escaneo trae estado fresco.
	}
}
