package accounting

import "github.com/jhoicas/erp-workflow-api/internal/domain/entity"

// ChartOfAccounts cuentas mínimas que necesita el motor para los códigos de m.
// Sin ID ni compañía: los asigna quien las persiste.
func ChartOfAccounts(m AccountMap) []entity.Account {
	m = m.WithDefaults()
	return []entity.Account{
		{Code: m.Cash, Name: "Caja y bancos", Type: entity.AccountAsset},
		{Code: m.Receivable, Name: "Clientes", Type: entity.AccountAsset},
		{Code: m.Inventory, Name: "Inventarios", Type: entity.AccountAsset},
		{Code: m.TaxReceivable, Name: "IVA descontable", Type: entity.AccountAsset},
		{Code: m.Payable, Name: "Proveedores", Type: entity.AccountLiability},
		{Code: m.GRNI, Name: "Mercancía recibida no facturada", Type: entity.AccountLiability},
		{Code: m.TaxPayable, Name: "IVA por pagar", Type: entity.AccountLiability},
		{Code: m.Revenue, Name: "Ingresos por ventas", Type: entity.AccountRevenue},
		{Code: m.COGS, Name: "Costo de ventas", Type: entity.AccountExpense},
	}
}
