package txbuilder

// Params параметры транзакции оплаты слота
type Params struct {
	Payer         string // base58, плательщик и fee payer
	CreatorWallet string // base58, получатель перевода
	Lamports      uint64
	Memo          string
	Message       string // текст для кошелька
}
