package analytics

import (
	"context"
	"encoding/json"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

const (
	keyWarehouseTotals = "warehouse_totals"
	keyStatusCounts    = "status_counts"
)

// Cache puerto del cache de agregados. Opcional: con cache nil todo se
// recomputa desde el Ledger en cada consulta.
type Cache interface {
	GetAggregate(ctx context.Context, key string) ([]byte, bool, error)
	SetAggregate(ctx context.Context, key string, value []byte) error
	InvalidateAggregates(ctx context.Context, keys ...string) error
}

// AggregateUseCase vistas agregadas para los gráficos del dashboard: totales
// por bodega y conteos de estado de stock. Derivadas, nunca autoritativas.
type AggregateUseCase struct {
	repo  repository.AggregateRepository
	cache Cache
	log   *logger.Logger
}

// NewAggregateUseCase construye el caso de uso. cache puede ser nil.
func NewAggregateUseCase(repo repository.AggregateRepository, cache Cache, log *logger.Logger) *AggregateUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AggregateUseCase{repo: repo, cache: cache, log: log}
}

// WarehouseTotals total de unidades por bodega, incluidas las vacías.
func (uc *AggregateUseCase) WarehouseTotals(ctx context.Context) ([]dto.WarehouseQuantityDTO, error) {
	var cached []dto.WarehouseQuantityDTO
	if ok := uc.fromCache(ctx, keyWarehouseTotals, &cached); ok {
		return cached, nil
	}

	totals, err := uc.repo.WarehouseTotals(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.WarehouseQuantityDTO, 0, len(totals))
	for _, t := range totals {
		result = append(result, dto.WarehouseQuantityDTO{
			Warehouse:     t.Warehouse,
			TotalQuantity: t.TotalQuantity.IntPart(),
		})
	}
	uc.toCache(ctx, keyWarehouseTotals, result)
	return result, nil
}

// BarChartData totales por bodega en el formato del gráfico de barras del UI:
// mapa nombre de bodega -> total.
func (uc *AggregateUseCase) BarChartData(ctx context.Context) (map[string]dto.BarChartEntry, error) {
	totals, err := uc.WarehouseTotals(ctx)
	if err != nil {
		return nil, err
	}
	data := make(map[string]dto.BarChartEntry, len(totals))
	for _, t := range totals {
		data[t.Warehouse] = dto.BarChartEntry{TotalQuantity: t.TotalQuantity}
	}
	return data, nil
}

// PieChartData conteo de registros en stock bajo vs. en stock.
func (uc *AggregateUseCase) PieChartData(ctx context.Context) (*dto.PieChartDTO, error) {
	var cached dto.PieChartDTO
	if ok := uc.fromCache(ctx, keyStatusCounts, &cached); ok {
		return &cached, nil
	}

	counts, err := uc.repo.StockStatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	result := &dto.PieChartDTO{LowStock: counts.LowStock, InStock: counts.InStock}
	uc.toCache(ctx, keyStatusCounts, *result)
	return result, nil
}

// Invalidate descarta los agregados cacheados. Los escritores del Ledger lo
// llaman de forma síncrona tras confirmar su mutación, de modo que una lectura
// posterior a un éxito nunca sirve un agregado viejo.
func (uc *AggregateUseCase) Invalidate(ctx context.Context) error {
	if uc.cache == nil {
		return nil
	}
	return uc.cache.InvalidateAggregates(ctx, keyWarehouseTotals, keyStatusCounts)
}

func (uc *AggregateUseCase) fromCache(ctx context.Context, key string, out any) bool {
	if uc.cache == nil {
		return false
	}
	raw, ok, err := uc.cache.GetAggregate(ctx, key)
	if err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("lectura de cache falló, recomputando")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("cache corrupto, recomputando")
		return false
	}
	return true
}

func (uc *AggregateUseCase) toCache(ctx context.Context, key string, v any) {
	if uc.cache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := uc.cache.SetAggregate(ctx, key, raw); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("escritura de cache falló")
	}
}
