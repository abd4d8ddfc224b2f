package cart

import (
	"sync"
	"testing"

	"github.com/hitoshi/shopfront/internal/model"
)

func TestContainer_Apply_UpdatesLocalProjection(t *testing.T) {
	container := NewContainer(nil, "USD")

	cart := container.Apply(addAction("gid://variant/a", "Product A", "1000", "JPY"))
	if cart.TotalQuantity != 1 {
		t.Errorf("TotalQuantity = %d, want 1", cart.TotalQuantity)
	}
	if got := container.Cart(); got.TotalQuantity != 1 {
		t.Errorf("Cart().TotalQuantity = %d, want 1", got.TotalQuantity)
	}
}

func TestContainer_Reconcile_ReplacesProjectionWholesale(t *testing.T) {
	container := NewContainer(nil, "USD")
	container.Apply(addAction("gid://variant/a", "Product A", "1000", "JPY"))

	// リモートの正本はローカルの楽観的変更を丸ごと置き換える
	authoritative := &model.Cart{
		ID:            "gid://cart/1",
		TotalQuantity: 5,
		Lines: []model.CartLine{
			{ID: "line-1", MerchandiseID: "gid://variant/b", Quantity: 5},
		},
	}
	container.Reconcile(authoritative)

	got := container.Cart()
	if got.ID != "gid://cart/1" {
		t.Errorf("ID = %q, want gid://cart/1", got.ID)
	}
	if len(got.Lines) != 1 || got.Lines[0].MerchandiseID != "gid://variant/b" {
		t.Errorf("local optimistic lines should be discarded: %+v", got.Lines)
	}
}

func TestContainer_ConcurrentApply(t *testing.T) {
	container := NewContainer(nil, "USD")
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			container.Apply(addAction("gid://variant/a", "Product A", "100", "JPY"))
		}()
	}
	wg.Wait()

	if got := container.Cart(); got.TotalQuantity != 10 {
		t.Errorf("TotalQuantity = %d, want 10", got.TotalQuantity)
	}
}
