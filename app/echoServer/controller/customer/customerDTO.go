package customer

type CreateCustomerReq struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required,numeric,min=10,max=11"`
	CPF   string `json:"cpf" validate:"required,numeric,len=11"`
}
