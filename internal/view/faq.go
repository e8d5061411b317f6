package view

type FAQEntry struct {
	Question string
	Answer   []string
}

type FAQPage struct {
	Title   string
	Entries []FAQEntry
}

// FAQ is the shop's fixed question list, in display order.
var FAQ = []FAQEntry{
	{"かき氷の販売は夏だけですか？", []string{
		"通年で営業しており、季節ごとに異なるメニューもご用意しています。",
	}},
	{"予約は出来ますか？", []string{
		"ご予約は承っておりませんが、状況に応じて順にご案内しております。混み合う時間帯はお待ちいただく場合がございますので、あらかじめご了承ください。なお、グループでのご来店の場合は、皆さまがおそろいになってからのご案内とさせていただいております。",
	}},
	{"定休日はありますか？", []string{
		"月に１回、不定休を設けています。",
	}},
	{"席は先に確保できますか？", []string{
		"恐れ入りますが、事前に席をお取りいただくことはご遠慮いただいております。皆さまが快適にお過ごしいただけますよう、ご理解とご協力のほどよろしくお願い申し上げます。",
	}},
	{"休業日はどこで確認できますか？", []string{
		"最新の営業情報はInstagramでお知らせしています。",
	}},
	{"会計はいつ行えばよいですか？", []string{
		"当店では、レジにて先にご注文とお会計を済ませていただいた後にお席へご案内しております。",
	}},
	{"営業時間を教えてください。", []string{
		"１１：００～２１：００で営業しております。ラストオーダーは２０：００です。",
	}},
	{"会計は現金のみですか？", []string{
		"当店では、キャッシュレス決済に対応しております。クレジットカード、交通系IC、各種QRコード決済をご利用いただけます。",
	}},
	{"電話がつながらないことがあるのですが、どうすればいいですか？", []string{
		"混雑時など店舗の状況により、電話にすぐ対応できない場合がございます。お急ぎの場合は、少し時間を空けて再度おかけ直しいただけますと幸いです。",
	}},
	{"席の利用時間に制限はありますか？", []string{
		"当店では、ゆっくりとお食事をお楽しみいただけるよう努めておりますが、混雑時には、お食事がお済みのお客さまへお声がけをさせていただく場合がございます。席をお待ちのお客さまがいらっしゃる際には、ご協力いただけますと幸いです。",
	}},
	{"人数分の注文は必要ですか？", []string{
		"恐れ入りますが、当店ではお一人につき1点以上のご注文をお願いしております。お席のご利用にあたって、皆さまに気持ちよくお過ごしいただけるよう、ご協力をお願い申し上げます。",
		"また、小さなお子さまや体調・ご事情などでご注文が難しい場合は、どうぞ遠慮なくスタッフまでご相談くださいませ。",
	}},
	{"店内でお水の提供はありますか？", []string{
		"当店では店内でのお冷のご提供は行っておりません。そのため、飲み物のお持ち込みは歓迎しております。",
		"ただし、食事の持ち込みはご遠慮いただいておりますので、あらかじめご了承いただけますと幸いです。",
	}},
}
