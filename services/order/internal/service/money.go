package service

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// MaxAmount - предел колонки NUMERIC(12,2); в минорных единицах всегда помещается в int64
var MaxAmount = decimal.RequireFromString("9999999999.99")

const errAmountTooLarge = "amount must not exceed 9999999999.99"

// ToMinorUnits переводит сумму в минорные единицы провайдера: x100 и округление
// до целого (половина от нуля), 1500.5 -> 150050.
// Сумма должна быть не больше MaxAmount, иначе IntPart переполняется.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromMinorUnits - обратное преобразование (сумма провайдера -> основные единицы)
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}
