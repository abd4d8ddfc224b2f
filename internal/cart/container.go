package cart

import (
	"sync"

	"github.com/hitoshi/shopfront/internal/model"
)

// Container は楽観的に更新されるローカルカートの入れ物。
// Applyで即座にローカル投影を更新し、リモートの正本が届いたら
// Reconcileで丸ごと置き換える。差分マージは行わない。
type Container struct {
	mu              sync.Mutex
	cart            *model.Cart
	defaultCurrency string
}

// NewContainer はContainerを生成する。
func NewContainer(initial *model.Cart, defaultCurrency string) *Container {
	return &Container{cart: initial, defaultCurrency: defaultCurrency}
}

// Apply はアクションをローカル投影に適用し、適用後のカートを返す。
func (c *Container) Apply(action Action) *model.Cart {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cart = Reduce(c.cart, action, c.defaultCurrency)
	return c.cart
}

// Reconcile はリモートから取得した正本でローカル投影を置き換える。
// ローカルの楽観的変更は保持されない。
func (c *Container) Reconcile(authoritative *model.Cart) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cart = authoritative
}

// Cart は現在のローカル投影を返す。未初期化の場合はnil。
func (c *Container) Cart() *model.Cart {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart
}
