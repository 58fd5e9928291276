package repository

import "context"

// StockRepository es el único puerto que escribe products.stock. Solo lo usa inventory.Ledger.
type StockRepository interface {
	// Increase suma qty al stock y devuelve el nuevo valor. ok=false si el producto no existe.
	Increase(ctx context.Context, productID string, qty int) (newStock int, ok bool, err error)
	// DecreaseIfAvailable resta qty solo si stock >= qty (decremento condicional).
	// ok=false si el producto no existe o no alcanza el stock; en ese caso no se modifica nada.
	DecreaseIfAvailable(ctx context.Context, productID string, qty int) (newStock int, ok bool, err error)
}
