package api

import (
	"github.com/melevanoronha/admin-console/internal/application/service"
	catalogUC "github.com/melevanoronha/admin-console/internal/application/usecase/catalog"
	"github.com/melevanoronha/admin-console/internal/domain/catalog"
	"github.com/melevanoronha/admin-console/pkg/logger"
)

// NewCatalogRegistry wires one container per managed entity to this client.
func NewCatalogRegistry(c *Client, notifier service.Notifier, publisher service.EventPublisher, log logger.Logger) *catalogUC.Registry {
	return catalogUC.NewRegistry(
		catalogUC.NewContainer(catalog.DicaSchema, NewResource[catalog.Dica](c, catalog.DicaSchema), notifier, publisher, log),
		catalogUC.NewContainer(catalog.VidaNoturnaSchema, NewResource[catalog.VidaNoturna](c, catalog.VidaNoturnaSchema), notifier, publisher, log),
		catalogUC.NewContainer(catalog.PasseioSchema, NewResource[catalog.Passeio](c, catalog.PasseioSchema), notifier, publisher, log),
		catalogUC.NewContainer(catalog.RestauranteSchema, NewResource[catalog.Restaurante](c, catalog.RestauranteSchema), notifier, publisher, log),
		catalogUC.NewContainer(catalog.PontoInteresseSchema, NewResource[catalog.PontoInteresse](c, catalog.PontoInteresseSchema), notifier, publisher, log),
		catalogUC.NewContainer(catalog.AeroportoSchema, NewResource[catalog.Aeroporto](c, catalog.AeroportoSchema), notifier, publisher, log),
	)
}
