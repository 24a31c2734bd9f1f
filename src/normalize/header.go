// backend/src/normalize/header.go
package normalize

// Field identifies a canonical sale attribute that a source column can map to.
type Field string

const (
	FieldSaleDate         Field = "data_venda"
	FieldSKU              Field = "sku"
	FieldProductName      Field = "nome_produto"
	FieldListingTitle     Field = "titulo_anuncio"
	FieldOrderStatus      Field = "status_pedido"
	FieldGrossAmount      Field = "valor_total_venda"
	FieldOrderNumber      Field = "numero_pedido"
	FieldUnits            Field = "unidades"
	FieldUnitPrice        Field = "preco_unitario"
	FieldBuyerName        Field = "comprador"
	FieldBuyerDocument    Field = "cpf_comprador"
	FieldBuyerState       Field = "estado_comprador"
	FieldBuyerCity        Field = "cidade_comprador"
	FieldShippingMethod   Field = "forma_entrega"
	FieldProductRevenue   Field = "receita_produtos"
	FieldMarkupRevenue    Field = "receita_acrescimo_preco"
	FieldInstallmentFee   Field = "taxa_parcelamento"
	FieldMarketplaceFee   Field = "tarifa_venda_impostos"
	FieldShippingRevenue  Field = "receita_envio"
	FieldShippingFee      Field = "tarifas_envio"
	FieldShippingCost     Field = "custo_envio"
	FieldWeightAdjustment Field = "custo_diferencas_peso"
	FieldRefunds          Field = "cancelamentos_reembolsos"
)

// headerSynonyms maps normalized header spellings (see Header) to canonical
// fields. It spans Portuguese and English vocabularies across the known
// marketplace exports. One table serves every adapter so a column cannot be
// understood at import time and forgotten at report time.
var headerSynonyms = map[string]Field{
	// sale date
	"data_venda":                 FieldSaleDate,
	"data_da_venda":              FieldSaleDate,
	"data":                       FieldSaleDate,
	"data_do_pedido":             FieldSaleDate,
	"data_de_criacao_do_pedido":  FieldSaleDate,
	"date":                       FieldSaleDate,
	"sale_date":                  FieldSaleDate,
	"order_date":                 FieldSaleDate,

	// sku
	"sku":                              FieldSKU,
	"codigo":                           FieldSKU,
	"codigo_sku":                       FieldSKU,
	"n_de_referencia_do_sku_principal": FieldSKU,
	"referencia":                       FieldSKU,

	// product name
	"nome_produto":    FieldProductName,
	"nome_do_produto": FieldProductName,
	"produto":         FieldProductName,
	"product_name":    FieldProductName,
	"item":            FieldProductName,

	// listing title
	"titulo_anuncio":    FieldListingTitle,
	"titulo_do_anuncio": FieldListingTitle,
	"nome_da_variacao":  FieldListingTitle,
	"anuncio":           FieldListingTitle,

	// status
	"status_pedido":       FieldOrderStatus,
	"status":              FieldOrderStatus,
	"status_do_pedido":    FieldOrderStatus,
	"descricao_do_status": FieldOrderStatus,
	"situacao":            FieldOrderStatus,
	"order_status":        FieldOrderStatus,

	// gross amount
	"valor_total_venda": FieldGrossAmount,
	"valor_total":       FieldGrossAmount,
	"valor":             FieldGrossAmount,
	"total":             FieldGrossAmount,
	"total_brl":         FieldGrossAmount,
	"total_do_pedido":   FieldGrossAmount,
	"total_amount":      FieldGrossAmount,
	"amount":            FieldGrossAmount,

	// order number
	"numero_pedido":    FieldOrderNumber,
	"numero_do_pedido": FieldOrderNumber,
	"n_de_venda":       FieldOrderNumber,
	"pedido":           FieldOrderNumber,
	"id_do_pedido":     FieldOrderNumber,
	"order_id":         FieldOrderNumber,

	// units
	"unidades":   FieldUnits,
	"quantidade": FieldUnits,
	"qtd":        FieldUnits,
	"units":      FieldUnits,
	"quantity":   FieldUnits,

	// unit price
	"preco_unitario": FieldUnitPrice,
	"preco":          FieldUnitPrice,
	"preco_acordado": FieldUnitPrice,
	"unit_price":     FieldUnitPrice,
	"preco_unitario_de_venda_do_anuncio_brl": FieldUnitPrice,

	// buyer
	"comprador":         FieldBuyerName,
	"cliente":           FieldBuyerName,
	"nome_do_comprador": FieldBuyerName,
	"buyer":             FieldBuyerName,
	"cpf":               FieldBuyerDocument,
	"cpf_comprador":     FieldBuyerDocument,
	"cnpj":              FieldBuyerDocument,
	"documento":         FieldBuyerDocument,

	// geography
	"estado":           FieldBuyerState,
	"estado_comprador": FieldBuyerState,
	"uf":               FieldBuyerState,
	"state":            FieldBuyerState,
	"cidade":           FieldBuyerCity,
	"cidade_comprador": FieldBuyerCity,
	"city":             FieldBuyerCity,

	// shipping
	"forma_entrega":    FieldShippingMethod,
	"forma_de_entrega": FieldShippingMethod,
	"envio":            FieldShippingMethod,
	"shipping_method":  FieldShippingMethod,

	// financial sub-components
	"receita_produtos":         FieldProductRevenue,
	"receita_por_produtos_brl": FieldProductRevenue,
	"subtotal_do_produto":      FieldProductRevenue,
	"product_revenue":          FieldProductRevenue,
	"receita_acrescimo_preco":  FieldMarkupRevenue,
	"receita_por_acrescimo_no_preco_pago_pelo_comprador": FieldMarkupRevenue,
	"taxa_parcelamento": FieldInstallmentFee,
	"taxa_de_parcelamento_equivalente_ao_acrescimo": FieldInstallmentFee,
	"tarifa_venda_impostos":                         FieldMarketplaceFee,
	"tarifa_de_venda_e_impostos_brl":                FieldMarketplaceFee,
	"comissao":                                      FieldMarketplaceFee,
	"receita_envio":                                 FieldShippingRevenue,
	"receita_por_envio_brl":                         FieldShippingRevenue,
	"tarifas_envio":                                 FieldShippingFee,
	"tarifas_de_envio_brl":                          FieldShippingFee,
	"custo_envio":                                   FieldShippingCost,
	"custo_de_envio_com_base_nas_medidas_e_peso_declarados": FieldShippingCost,
	"frete":                 FieldShippingCost,
	"custo_diferencas_peso": FieldWeightAdjustment,
	"custo_por_diferencas_nas_medidas_e_no_peso_do_pacote": FieldWeightAdjustment,
	"cancelamentos_reembolsos":     FieldRefunds,
	"cancelamentos_e_reembolsos_brl": FieldRefunds,
	"reembolsos":                   FieldRefunds,
}

// MapHeader resolves a normalized header to a canonical field. A header that
// matches no alias is dropped by callers rather than reported: unmapped
// columns are a deliberate lenient-import policy, not an error.
func MapHeader(normalized string) (Field, bool) {
	f, ok := headerSynonyms[normalized]
	return f, ok
}
