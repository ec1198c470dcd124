package tokenizer

// stopWords are high-frequency function words excluded from search terms.
var stopWords = map[string]bool{
	"する": true, "ある": true, "なる": true, "いる": true, "できる": true,
	"という": true, "として": true,
	"の": true, "に": true, "は": true, "を": true, "が": true, "で": true,
	"て": true, "と": true, "から": true, "まで": true,
	"こと": true, "もの": true, "ため": true, "よう": true,
	"これ": true, "それ": true, "あれ": true,
	"この": true, "その": true, "あの": true,
	"ここ": true, "そこ": true, "あそこ": true,
	"こちら": true, "そちら": true, "あちら": true,
	"どこ": true, "だれ": true, "なに": true, "なん": true,
	"いつ": true, "どう": true,
	"だ": true, "である": true, "です": true, "ます": true,
}
