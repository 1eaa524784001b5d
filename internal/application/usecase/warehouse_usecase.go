package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// WarehouseUseCase CRUD de bodegas.
type WarehouseUseCase struct {
	warehouseRepo repository.WarehouseRepository
	stockRepo     repository.StockRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(warehouseRepo repository.WarehouseRepository, stockRepo repository.StockRepository) *WarehouseUseCase {
	return &WarehouseUseCase{warehouseRepo: warehouseRepo, stockRepo: stockRepo}
}

// Create da de alta una bodega. domain.ErrDuplicate si el nombre ya existe
// (comparación case-insensitive).
func (uc *WarehouseUseCase) Create(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	wh := &entity.Warehouse{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Location:  in.Location,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.warehouseRepo.Create(ctx, wh); err != nil {
		return nil, err
	}
	return toWarehouseResponse(wh), nil
}

// GetByID obtiene una bodega. nil, nil si no existe.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	wh, err := uc.warehouseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, nil
	}
	return toWarehouseResponse(wh), nil
}

// Update modifica nombre o ubicación.
func (uc *WarehouseUseCase) Update(ctx context.Context, id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	wh, err := uc.warehouseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		wh.Name = *in.Name
	}
	if in.Location != nil {
		wh.Location = *in.Location
	}
	wh.UpdatedAt = time.Now()
	if err := uc.warehouseRepo.Update(ctx, wh); err != nil {
		return nil, err
	}
	return toWarehouseResponse(wh), nil
}

// List devuelve las bodegas paginadas.
func (uc *WarehouseUseCase) List(ctx context.Context, page, limit int) (*dto.WarehouseListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	warehouses, err := uc.warehouseRepo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(warehouses))
	for _, wh := range warehouses {
		items = append(items, *toWarehouseResponse(wh))
	}
	return &dto.WarehouseListResponse{Items: items}, nil
}

// Delete elimina una bodega. domain.ErrConflict si aún tiene registros de
// stock: hay que moverlos o borrarlos primero.
func (uc *WarehouseUseCase) Delete(ctx context.Context, id string) error {
	wh, err := uc.warehouseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if wh == nil {
		return domain.ErrNotFound
	}
	count, err := uc.stockRepo.CountByWarehouse(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrConflict
	}
	return uc.warehouseRepo.Delete(ctx, id)
}

func toWarehouseResponse(wh *entity.Warehouse) *dto.WarehouseResponse {
	return &dto.WarehouseResponse{
		ID:        wh.ID,
		Name:      wh.Name,
		Location:  wh.Location,
		CreatedAt: wh.CreatedAt,
		UpdatedAt: wh.UpdatedAt,
	}
}
