// Package cart はカートの楽観的更新とリモートカートへの操作を提供する。
// 楽観的更新はUI応答のためのローカルな投影であり、正本は常にリモート側にある。
// リモートから取得した正本はローカルの投影を丸ごと置き換える（Reconcile）。
package cart

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/hitoshi/shopfront/internal/model"
)

// ActionType は楽観的更新のアクション種別。
type ActionType int

const (
	// ActionAddItem は商品を1つカートに追加する。
	ActionAddItem ActionType = iota
	// ActionUpdateItem は既存ラインの数量を変更または削除する。
	ActionUpdateItem
)

// UpdateType はActionUpdateItemの更新種別。
type UpdateType int

const (
	// UpdateIncrement は数量を1増やす。
	UpdateIncrement UpdateType = iota
	// UpdateDecrement は数量を1減らす。0になったラインは削除される。
	UpdateDecrement
	// UpdateDelete はラインを数量に関わらず削除する。
	UpdateDelete
)

// VariantSnapshot は追加対象バリアントのローカルスナップショット。
// 楽観的更新では追加後の正確な金額をリモートに聞けないため、
// 表示中の単価から計算する。
type VariantSnapshot struct {
	MerchandiseID string
	Title         string
	UnitPrice     model.Money
}

// Action は楽観的更新の1操作を表す。
type Action struct {
	Type ActionType

	// ActionAddItem用
	Variant VariantSnapshot

	// ActionUpdateItem用
	MerchandiseID string
	Update        UpdateType
}

// Reduce は現在のカートにアクションを適用した新しいカートを返す。
// 入力のカートは変更しない。currentがnilの場合は空カートから開始する。
// 数量が0になったラインは保持せず削除する。
func Reduce(current *model.Cart, action Action, defaultCurrency string) *model.Cart {
	next := cloneCart(current)

	switch action.Type {
	case ActionAddItem:
		applyAddItem(next, action.Variant)
	case ActionUpdateItem:
		applyUpdateItem(next, action.MerchandiseID, action.Update)
	}

	recomputeTotals(next, defaultCurrency)
	return next
}

func cloneCart(c *model.Cart) *model.Cart {
	if c == nil {
		return &model.Cart{Lines: []model.CartLine{}}
	}
	next := *c
	next.Lines = make([]model.CartLine, len(c.Lines))
	copy(next.Lines, c.Lines)
	return &next
}

func applyAddItem(c *model.Cart, variant VariantSnapshot) {
	for i, line := range c.Lines {
		if line.MerchandiseID == variant.MerchandiseID {
			c.Lines[i] = setLineQuantity(line, line.Quantity+1)
			return
		}
	}
	c.Lines = append(c.Lines, model.CartLine{
		// リモートが採番するまでの仮ID。Reconcileで正式なIDに置き換わる
		ID:            "temp-" + uuid.NewString(),
		MerchandiseID: variant.MerchandiseID,
		Title:         variant.Title,
		Quantity:      1,
		Cost: model.Money{
			Amount:       variant.UnitPrice.Amount,
			CurrencyCode: variant.UnitPrice.CurrencyCode,
		},
	})
}

func applyUpdateItem(c *model.Cart, merchandiseID string, update UpdateType) {
	for i, line := range c.Lines {
		if line.MerchandiseID != merchandiseID {
			continue
		}
		switch update {
		case UpdateIncrement:
			c.Lines[i] = setLineQuantity(line, line.Quantity+1)
		case UpdateDecrement:
			if line.Quantity <= 1 {
				c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			} else {
				c.Lines[i] = setLineQuantity(line, line.Quantity-1)
			}
		case UpdateDelete:
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		}
		return
	}
	// 存在しないラインへの更新は何もしない
}

// setLineQuantity は単価（合計÷数量）を保ったまま数量を変更したラインを返す。
func setLineQuantity(line model.CartLine, quantity int) model.CartLine {
	unit := unitPrice(line)
	line.Quantity = quantity
	line.Cost.Amount = multiplyAmount(unit, quantity)
	return line
}

func unitPrice(line model.CartLine) string {
	if line.Quantity <= 0 {
		return line.Cost.Amount
	}
	total, err := strconv.ParseFloat(line.Cost.Amount, 64)
	if err != nil {
		return line.Cost.Amount
	}
	return formatAmount(total / float64(line.Quantity))
}

func multiplyAmount(amount string, quantity int) string {
	v, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return amount
	}
	return formatAmount(v * float64(quantity))
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// recomputeTotals は数量合計と金額合計をライン内容から再計算する。
// 通貨は先頭ラインに従い、空カートではdefaultCurrencyを使う。
func recomputeTotals(c *model.Cart, defaultCurrency string) {
	totalQuantity := 0
	totalAmount := 0.0
	currency := defaultCurrency
	if len(c.Lines) > 0 {
		currency = c.Lines[0].Cost.CurrencyCode
	}

	for _, line := range c.Lines {
		totalQuantity += line.Quantity
		if v, err := strconv.ParseFloat(line.Cost.Amount, 64); err == nil {
			totalAmount += v
		}
	}

	c.TotalQuantity = totalQuantity
	amount := formatAmount(totalAmount)
	c.Cost.SubtotalAmount = model.Money{Amount: amount, CurrencyCode: currency}
	c.Cost.TotalAmount = model.Money{Amount: amount, CurrencyCode: currency}
	c.Cost.TotalTaxAmount = model.Money{Amount: "0.0", CurrencyCode: currency}
}
