package services

// UsableWalletCredit computes how much wallet credit an order can consume:
// the whole payable amount when the balance covers it, otherwise the whole
// balance. Callers pass the payable amount before wallet application
// (subtotal + delivery - coupon discount).
func UsableWalletCredit(balance, payableBeforeWallet float64) float64 {
	if balance <= 0 || payableBeforeWallet <= 0 {
		return 0
	}
	if balance < payableBeforeWallet {
		return balance
	}
	return payableBeforeWallet
}
