package account

// addressFields は住所の共通フィールド選択。
const addressFields = `
id
firstName
lastName
company
address1
address2
city
province
zip
country
phoneNumber`

const getCustomerQuery = `query getCustomer {
  customer {
    id
    firstName
    lastName
    emailAddress {
      emailAddress
    }
    phoneNumber {
      phoneNumber
    }
    defaultAddress {
      id
    }
    addresses(first: 20) {
      edges {
        node {` + addressFields + `
        }
      }
    }
  }
}`

// orderFields は注文一覧・詳細で共通のフィールド選択。
const orderFields = `
id
number
processedAt
fulfillments(first: 10) {
  edges {
    node {
      status
      trackingInformation {
        company
        number
      }
      updatedAt
    }
  }
}
financialStatus
subtotal {
  amount
  currencyCode
}
totalShipping {
  amount
  currencyCode
}
totalTax {
  amount
  currencyCode
}
totalPrice {
  amount
  currencyCode
}
shippingAddress {` + addressFields + `
}
billingAddress {` + addressFields + `
}
lineItems(first: 100) {
  edges {
    node {
      title
      variantTitle
      quantity
      price {
        amount
        currencyCode
      }
      image {
        url
      }
    }
  }
}`

const getOrdersQuery = `query getOrders($first: Int!) {
  customer {
    orders(first: $first, sortKey: PROCESSED_AT, reverse: true) {
      edges {
        node {` + orderFields + `
        }
      }
    }
  }
}`

const getOrderQuery = `query getOrder($orderId: ID!) {
  order(id: $orderId) {` + orderFields + `
  }
}`

const updateCustomerMutation = `mutation updateCustomer($input: CustomerUpdateInput!) {
  customerUpdate(input: $input) {
    customer {
      id
      firstName
      lastName
    }
    userErrors {
      field
      message
    }
  }
}`

const createAddressMutation = `mutation createAddress($address: CustomerAddressInput!) {
  customerAddressCreate(address: $address) {
    customerAddress {
      id
    }
    userErrors {
      field
      message
    }
  }
}`

const deleteAddressMutation = `mutation deleteAddress($addressId: ID!) {
  customerAddressDelete(addressId: $addressId) {
    deletedAddressId
    userErrors {
      field
      message
    }
  }
}`

const setDefaultAddressMutation = `mutation setDefaultAddress($addressId: ID!) {
  customerAddressUpdate(addressId: $addressId, defaultAddress: true) {
    customerAddress {
      id
    }
    userErrors {
      field
      message
    }
  }
}`
